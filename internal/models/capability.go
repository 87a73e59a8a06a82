package models

import "fmt"

// Capability names a permission evaluated against a scope.
type Capability string

const (
	CapCourseCreate            Capability = "moodle/course:create"
	CapCourseView              Capability = "moodle/course:view"
	CapCourseUpdate            Capability = "moodle/course:update"
	CapCourseVisibility        Capability = "moodle/course:visibility"
	CapCourseDelete            Capability = "moodle/course:delete"
	CapCourseViewHiddenCourses Capability = "moodle/course:viewhiddencourses"
	CapManualEnrol             Capability = "enrol/manual:enrol"
	CapUserViewDetails         Capability = "moodle/user:viewdetails"
	CapUserUpdate              Capability = "moodle/user:update"
	CapUserDelete              Capability = "moodle/user:delete"
	CapUserLoginAs             Capability = "moodle/user:loginas"
	CapSiteViewParticipants    Capability = "moodle/site:viewparticipants"
)

// ContextLevel mirrors the host platform's context levels.
type ContextLevel int

const (
	ContextSystem   ContextLevel = 10
	ContextCategory ContextLevel = 40
	ContextCourse   ContextLevel = 50
)

func (l ContextLevel) String() string {
	switch l {
	case ContextSystem:
		return "system"
	case ContextCategory:
		return "category"
	case ContextCourse:
		return "course"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Scope is the entity a capability is checked against.
type Scope struct {
	Level      ContextLevel
	InstanceID int64
}

// SystemScope is the site-wide scope.
func SystemScope() Scope { return Scope{Level: ContextSystem} }

// CategoryScope targets a course category.
func CategoryScope(id int64) Scope { return Scope{Level: ContextCategory, InstanceID: id} }

// CourseScope targets a course.
func CourseScope(id int64) Scope { return Scope{Level: ContextCourse, InstanceID: id} }

func (s Scope) String() string {
	if s.Level == ContextSystem {
		return s.Level.String()
	}
	return fmt.Sprintf("%s:%d", s.Level, s.InstanceID)
}

// ContextChain lists the contexts a capability check inherits from: the
// system, the category path and optionally a course.
type ContextChain struct {
	CategoryIDs []int64
	CourseID    int64
}
