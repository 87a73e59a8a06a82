package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/pkg/response"
)

type categoryService interface {
	Categories(ctx context.Context, caller models.Caller) (*dto.CategoryList, error)
}

// CategoryHandler lists the categories offered by the course creation form.
type CategoryHandler struct {
	categories categoryService
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(categories categoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.CategoryList}
// @Security BearerAuth
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	list, err := h.categories.Categories(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}
