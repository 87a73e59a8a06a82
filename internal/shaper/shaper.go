// Package shaper turns raw store records into the flat response structures
// returned by the supporter endpoints. Functions here perform no I/O and never
// fail; lookups that cannot be resolved degrade to empty values.
package shaper

import (
	"time"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
)

// Options configures a Shaper.
type Options struct {
	BaseURL             string
	Location            *time.Location
	LegacyTimestamps    bool
	StudentArchetype    string
	EnabledEnrolPlugins []string
}

// Shaper builds response DTOs.
type Shaper struct {
	format           Formatter
	links            Links
	studentArchetype string
	enabledPlugins   map[string]struct{}
}

// New constructs a Shaper.
func New(opts Options) *Shaper {
	if opts.StudentArchetype == "" {
		opts.StudentArchetype = "student"
	}
	enabled := make(map[string]struct{}, len(opts.EnabledEnrolPlugins))
	for _, plugin := range opts.EnabledEnrolPlugins {
		enabled[plugin] = struct{}{}
	}
	return &Shaper{
		format:           NewFormatter(opts.Location, opts.LegacyTimestamps),
		links:            NewLinks(opts.BaseURL),
		studentArchetype: opts.StudentArchetype,
		enabledPlugins:   enabled,
	}
}

// CreatedCourse shapes a freshly created course.
func (s *Shaper) CreatedCourse(course models.Course) dto.CreatedCourse {
	return dto.CreatedCourse{
		ID:           course.ID,
		Category:     course.CategoryID,
		Fullname:     course.Fullname,
		Shortname:    course.Shortname,
		StartDate:    course.StartDate,
		EndDate:      course.EndDate,
		Visible:      course.Visible,
		TimeCreated:  course.TimeCreated,
		TimeModified: course.TimeModified,
	}
}

// UserList shapes the user table, skipping deleted accounts.
func (s *Shaper) UserList(users []models.User) dto.UserList {
	out := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		if u.Deleted {
			continue
		}
		out = append(out, dto.UserSummary{
			ID:        u.ID,
			IDNumber:  u.IDNumber,
			Username:  u.Username,
			Firstname: u.Firstname,
			Lastname:  u.Lastname,
			Email:     u.Email,
		})
	}
	return dto.UserList{Users: out}
}

// Settings shapes the paging and ordering settings.
func Settings(settings models.Settings) dto.Settings {
	return dto.Settings{
		UserDetailsPageLength:   settings.UserDetailsPageLength,
		UserDetailsOrder:        settings.UserDetailsOrder,
		CourseDetailsPageLength: settings.CourseDetailsPageLength,
		CourseDetailsOrder:      settings.CourseDetailsOrder,
		UserTablePageLength:     settings.UserTablePageLength,
		UserTableOrder:          settings.UserTableOrder,
		CourseTablePageLength:   settings.CourseTablePageLength,
		CourseTableOrder:        settings.CourseTableOrder,
	}
}
