package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-supporter-api/internal/middleware"
	"github.com/noah-isme/course-supporter-api/internal/models"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
	"github.com/noah-isme/course-supporter-api/pkg/response"
)

// callerFromContext writes an Unauthorized response when no caller is attached.
func callerFromContext(c *gin.Context) (models.Caller, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Caller{}, false
	}
	return caller, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

func invalidPayload(c *gin.Context, err error) {
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
}
