package models

// User is a platform account.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	Firstname    string `db:"firstname" json:"firstname"`
	Lastname     string `db:"lastname" json:"lastname"`
	Email        string `db:"email" json:"email"`
	IDNumber     string `db:"idnumber" json:"idnumber"`
	Auth         string `db:"auth" json:"auth"`
	Lang         string `db:"lang" json:"lang"`
	LastLogin    int64  `db:"lastlogin" json:"lastlogin"`
	TimeCreated  int64  `db:"timecreated" json:"timecreated"`
	TimeModified int64  `db:"timemodified" json:"timemodified"`
	Deleted      bool   `db:"deleted" json:"deleted"`
}

// EnrolledUser is a participant of a course with their last course access.
type EnrolledUser struct {
	ID         int64  `db:"id"`
	Username   string `db:"username"`
	Firstname  string `db:"firstname"`
	Lastname   string `db:"lastname"`
	LastAccess int64  `db:"lastaccess"`
	EnrolID    int64  `db:"enrol_id"`
}
