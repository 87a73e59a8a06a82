package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/pkg/response"
)

type userService interface {
	Information(ctx context.Context, caller models.Caller, userID int64) (*dto.UserInformation, error)
	List(ctx context.Context, caller models.Caller) (*dto.UserList, error)
}

// UserHandler exposes user endpoints.
type UserHandler struct {
	users userService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users userService) *UserHandler {
	return &UserHandler{users: users}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.UserList}
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	users, err := h.users.List(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users)
}

// Information godoc
// @Summary User details
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope{data=dto.UserInformation}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Information(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	userID, ok := idParam(c)
	if !ok {
		return
	}
	info, err := h.users.Information(c.Request.Context(), caller, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}
