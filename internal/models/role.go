package models

// Role is an entry of the host role catalog.
type Role struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Shortname  string `db:"shortname" json:"shortname"`
	Archetype  string `db:"archetype" json:"archetype"`
	SortOrder  int    `db:"sortorder" json:"sortorder"`
	Assignable bool   `db:"assignable" json:"assignable"`
}

// RoleAssignment links a user to a role inside a course.
type RoleAssignment struct {
	UserID   int64  `db:"userid"`
	RoleID   int64  `db:"roleid"`
	RoleName string `db:"rolename"`
	CourseID int64  `db:"courseid"`
}
