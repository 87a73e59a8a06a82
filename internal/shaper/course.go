package shaper

import (
	"fmt"
	"strings"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
)

var defaultMethodNames = map[string]string{
	models.EnrolPluginManual: "Manual enrolments",
	models.EnrolPluginSelf:   "Self enrolment",
	models.EnrolPluginGuest:  "Guest access",
}

// CourseInfoInput collects the records the course view is built from.
type CourseInfoInput struct {
	Course          models.Course
	Categories      CategoryIndex
	EnrolledUsers   []models.EnrolledUser
	AssignableRoles []models.Role
	Assignments     []models.RoleAssignment
	Activities      []models.Activity
	Enrolments      []models.EnrolInstanceUsage
	Settings        models.Settings

	CanUpdate       bool
	CanDelete       bool
	CanUpdateSystem bool
}

// CourseInfo shapes the get_course_info view.
func (s *Shaper) CourseInfo(in CourseInfoInput) dto.CourseInfo {
	course := in.Course
	path := ""
	if category, ok := in.Categories[course.CategoryID]; ok {
		path = in.Categories.Breadcrumb(category.Path, "/")
	}
	levelOne, levelTwo := in.Categories.Levels(course.CategoryID)
	roles, rolesInCourse := RoleBreakdown(in.AssignableRoles, in.Assignments)

	return dto.CourseInfo{
		CourseDetails: dto.CourseDetails{
			ID:            course.ID,
			Shortname:     course.Shortname,
			Fullname:      course.Fullname,
			Visible:       course.Visible,
			Path:          path,
			EnrolledUsers: len(in.EnrolledUsers),
			TimeCreated:   s.format.Timestamp(course.TimeCreated),
			LevelOne:      levelOne,
			LevelTwo:      levelTwo,
		},
		Config:           courseDetailsConfig(in.Settings.CourseDetails),
		RolesInCourse:    rolesInCourse,
		Roles:            roles,
		Users:            s.courseUsers(in),
		Activities:       activities(in.Activities),
		EnrolmentMethods: s.EnrolmentMethods(in.Enrolments),
		Links: dto.CourseLinks{
			CourseLink:   s.links.Course(course.ID),
			SettingsLink: gated(in.CanUpdate, s.links.CourseSettings(course.ID)),
			DeleteLink:   gated(in.CanDelete, s.links.CourseDelete(course.ID)),
		},
		IsAllowedToUpdateCourse: in.CanUpdateSystem,
	}
}

func (s *Shaper) courseUsers(in CourseInfoInput) []dto.CourseUser {
	byUser := userRoles(in.AssignableRoles, in.Assignments)
	out := make([]dto.CourseUser, 0, len(in.EnrolledUsers))
	for _, u := range in.EnrolledUsers {
		roles := byUser[u.ID]
		if roles == nil {
			roles = []string{}
		}
		out = append(out, dto.CourseUser{
			ID:         u.ID,
			Username:   u.Username,
			Firstname:  u.Firstname,
			Lastname:   u.Lastname,
			LastAccess: s.format.Timestamp(u.LastAccess),
			Roles:      roles,
			EnrolID:    u.EnrolID,
		})
	}
	return out
}

func activities(modules []models.Activity) []dto.Activity {
	out := make([]dto.Activity, 0, len(modules))
	for _, m := range modules {
		out = append(out, dto.Activity{
			Section:  SectionName(m.Section, m.SectionName),
			Activity: m.Module,
			Name:     m.Name,
			Visible:  m.Visible,
		})
	}
	return out
}

// SectionName returns the custom section name or the default for its number.
func SectionName(section int, name string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	if section == 0 {
		return "General"
	}
	return fmt.Sprintf("Topic %d", section)
}

// MethodName returns the display name of an enrolment instance.
func MethodName(instance models.EnrolInstance) string {
	if instance.Name != "" {
		return instance.Name
	}
	if name, ok := defaultMethodNames[instance.Plugin]; ok {
		return name
	}
	return instance.Plugin
}

// EnrolmentMethods summarises the enrolment instances of a course. A method is
// enabled when its plugin is enabled site-wide and the instance is enabled.
func (s *Shaper) EnrolmentMethods(usages []models.EnrolInstanceUsage) []dto.EnrolmentMethod {
	out := make([]dto.EnrolmentMethod, 0, len(usages))
	for _, u := range usages {
		_, pluginEnabled := s.enabledPlugins[u.Plugin]
		out = append(out, dto.EnrolmentMethod{
			MethodName: MethodName(u.EnrolInstance),
			Enabled:    pluginEnabled && u.Enabled(),
			Users:      u.Users,
		})
	}
	return out
}

// CourseListing shapes the course table. Courses in category 0 (the site
// course) are skipped.
func (s *Shaper) CourseListing(courses []models.Course, categories CategoryIndex, labels string) dto.CourseListing {
	out := make([]dto.CourseSummary, 0, len(courses))
	levelOnes := make([]string, 0, len(courses))
	levelTwos := make([]string, 0, len(courses))
	for _, course := range courses {
		if course.CategoryID == 0 {
			continue
		}
		one, two := categories.Levels(course.CategoryID)
		out = append(out, dto.CourseSummary{
			ID:        course.ID,
			Shortname: course.Shortname,
			Fullname:  course.Fullname,
			LevelOne:  one,
			LevelTwo:  two,
			Visible:   course.Visible,
		})
		levelOnes = append(levelOnes, one)
		levelTwos = append(levelTwos, two)
	}
	return dto.CourseListing{
		Courses:          out,
		UniqueLevelOnes:  UniqueNames(levelOnes),
		UniqueLevelTwoes: UniqueNames(levelTwos),
		LevelLabels:      LevelLabels(labels),
	}
}

func courseDetailsConfig(t models.CourseDetailToggles) dto.CourseDetailsConfig {
	return dto.CourseDetailsConfig{
		ShowShortname:      t.Shortname,
		ShowFullname:       t.Fullname,
		ShowVisible:        t.Visible,
		ShowPath:           t.Path,
		ShowTimeCreated:    t.TimeCreated,
		ShowUsersAmount:    t.UsersAmount,
		ShowRolesAndAmount: t.RolesAndAmount,
	}
}
