package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/internal/service"
	"github.com/noah-isme/course-supporter-api/pkg/response"
)

type exportService interface {
	ExportCourses(ctx context.Context, caller models.Caller, req dto.ExportRequest) (*service.ExportFile, error)
}

// ExportHandler streams tabular exports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Courses godoc
// @Summary Export course table
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/export [get]
func (h *ExportHandler) Courses(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	file, err := h.exports.ExportCourses(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
