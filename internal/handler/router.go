package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-supporter-api/internal/middleware"
	"github.com/noah-isme/course-supporter-api/internal/models"
)

// AuditFunc builds the audit middleware for an action on a resource.
type AuditFunc func(action, resource string) gin.HandlerFunc

// Handlers groups the API handlers mounted by RegisterRoutes.
type Handlers struct {
	Courses    *CourseHandler
	Users      *UserHandler
	Categories *CategoryHandler
	Settings   *SettingsHandler
	Export     *ExportHandler
}

// RegisterRoutes mounts the supporter API on api. auth must attach the caller.
func RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc, audit AuditFunc, h Handlers) {
	if audit == nil {
		audit = func(string, string) gin.HandlerFunc { return func(c *gin.Context) { c.Next() } }
	}

	api.Use(auth, middleware.WithResponseMeta())

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", audit(models.AuditActionCourseCreate, "course"), h.Courses.Create)
	courses.GET("/export", h.Export.Courses)
	courses.GET("/:id", h.Courses.Info)
	courses.GET("/:id/assignable-roles", h.Courses.AssignableRoles)
	courses.POST("/:id/enrolments", audit(models.AuditActionCourseEnrol, "course"), h.Courses.Enrol)
	courses.POST("/:id/visibility/toggle", audit(models.AuditActionCourseVisibility, "course"), h.Courses.ToggleVisibility)

	users := api.Group("/users")
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Information)

	api.GET("/categories", h.Categories.List)
	api.GET("/settings", h.Settings.Get)
}
