package models

import "errors"

// Enrolment plugin names understood by this service.
const (
	EnrolPluginManual = "manual"
	EnrolPluginSelf   = "self"
	EnrolPluginGuest  = "guest"
)

// Enrolment instance status values as stored by the host.
const (
	EnrolStatusEnabled  = 0
	EnrolStatusDisabled = 1
)

// EnrolInstance is an enrolment method attached to a course.
type EnrolInstance struct {
	ID        int64  `db:"id" json:"id"`
	CourseID  int64  `db:"courseid" json:"courseid"`
	Plugin    string `db:"enrol" json:"enrol"`
	Name      string `db:"name" json:"name"`
	Status    int    `db:"status" json:"status"`
	Password  string `db:"password" json:"-"`
	SortOrder int    `db:"sortorder" json:"sortorder"`
}

// Enabled reports whether the instance status is enabled.
func (e EnrolInstance) Enabled() bool {
	return e.Status == EnrolStatusEnabled
}

// EnrolInstanceUsage pairs an instance with its user enrolment count.
type EnrolInstanceUsage struct {
	EnrolInstance
	Users int `db:"users" json:"users"`
}

// ManualEnrolment is a single entry of a bulk manual enrolment.
type ManualEnrolment struct {
	UserID   int64
	CourseID int64
	RoleID   int64
}

// ErrManualInstanceMissing is returned when a course has no manual enrolment
// instance to enrol through.
var ErrManualInstanceMissing = errors.New("manual enrolment instance missing")
