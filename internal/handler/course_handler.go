package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/middleware"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, caller models.Caller, req dto.CreateCourseRequest) (*dto.CreatedCourse, error)
	Enrol(ctx context.Context, caller models.Caller, req dto.EnrolUserRequest) (*dto.CourseInfo, error)
	Info(ctx context.Context, caller models.Caller, courseID int64) (*dto.CourseInfo, error)
	ToggleVisibility(ctx context.Context, caller models.Caller, courseID int64) (*dto.CourseInfo, error)
	List(ctx context.Context, caller models.Caller) (*dto.CourseListing, bool, error)
	AssignableRoles(ctx context.Context, caller models.Caller, courseID int64) (*dto.AssignableRoles, error)
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Create godoc
// @Summary Create course
// @Description Creates a course in a category. Start and end dates follow the semester in the shortname.
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope{data=dto.CreatedCourse}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	created, err := h.courses.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResourceID(c, strconv.FormatInt(created.ID, 10))
	response.Created(c, created)
}

// Enrol godoc
// @Summary Enrol user into course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body dto.EnrolUserRequest true "Enrolment payload"
// @Success 200 {object} response.Envelope{data=dto.CourseInfo}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/enrolments [post]
func (h *CourseHandler) Enrol(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.EnrolUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	req.CourseID = courseID
	view, err := h.courses.Enrol(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Info godoc
// @Summary Course details
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope{data=dto.CourseInfo}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *CourseHandler) Info(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c)
	if !ok {
		return
	}
	view, err := h.courses.Info(c.Request.Context(), caller, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// ToggleVisibility godoc
// @Summary Toggle course visibility
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope{data=dto.CourseInfo}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/visibility/toggle [post]
func (h *CourseHandler) ToggleVisibility(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c)
	if !ok {
		return
	}
	view, err := h.courses.ToggleVisibility(c.Request.Context(), caller, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// List godoc
// @Summary List courses
// @Description Course table with level one/two names and the configured level labels. meta.cache_hit reports cache use.
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.CourseListing}
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	listing, hit, err := h.courses.List(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, listing, middleware.ExtractMeta(c))
}

// AssignableRoles godoc
// @Summary Roles assignable in a course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope{data=dto.AssignableRoles}
// @Security BearerAuth
// @Router /courses/{id}/assignable-roles [get]
func (h *CourseHandler) AssignableRoles(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	courseID, ok := idParam(c)
	if !ok {
		return
	}
	roles, err := h.courses.AssignableRoles(c.Request.Context(), caller, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles)
}
