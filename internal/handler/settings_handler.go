package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/pkg/response"
)

type settingsService interface {
	Get(ctx context.Context, caller models.Caller) (*dto.Settings, error)
}

// SettingsHandler exposes the table settings.
type SettingsHandler struct {
	settings settingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings settingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get godoc
// @Summary Table paging and ordering settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.Settings}
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	settings, err := h.settings.Get(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}
