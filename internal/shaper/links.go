package shaper

import (
	"fmt"
	"net/url"
	"strings"
)

// Links builds host navigation URLs.
type Links struct {
	base string
}

// NewLinks creates a link builder rooted at base.
func NewLinks(base string) Links {
	return Links{base: strings.TrimRight(base, "/")}
}

// Profile links to the public profile of a user.
func (l Links) Profile(userID int64) string {
	return fmt.Sprintf("%s/user/profile.php?id=%d", l.base, userID)
}

// EditUser links to the admin edit form of a user.
func (l Links) EditUser(userID int64) string {
	return fmt.Sprintf("%s/user/editadvanced.php?id=%d", l.base, userID)
}

// DeleteUser links to the admin delete action, signed with the session key.
func (l Links) DeleteUser(userID int64, sesskey string) string {
	return fmt.Sprintf("%s/admin/user.php?delete=%d&sesskey=%s", l.base, userID, url.QueryEscape(sesskey))
}

// LoginAs links to the login-as action for a user.
func (l Links) LoginAs(userID int64, sesskey string) string {
	return fmt.Sprintf("%s/course/loginas.php?id=1&user=%d&sesskey=%s", l.base, userID, url.QueryEscape(sesskey))
}

// Course links to the course page.
func (l Links) Course(courseID int64) string {
	return fmt.Sprintf("%s/course/view.php?id=%d", l.base, courseID)
}

// CourseSettings links to the course settings form.
func (l Links) CourseSettings(courseID int64) string {
	return fmt.Sprintf("%s/course/edit.php?id=%d", l.base, courseID)
}

// CourseDelete links to the course delete confirmation.
func (l Links) CourseDelete(courseID int64) string {
	return fmt.Sprintf("%s/course/delete.php?id=%d", l.base, courseID)
}

// gated returns link when allowed and nil otherwise.
func gated(allowed bool, link string) *string {
	if !allowed {
		return nil
	}
	return &link
}
