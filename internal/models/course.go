package models

// Course is a course record from the host store. Timestamps are epoch seconds.
type Course struct {
	ID           int64  `db:"id" json:"id"`
	CategoryID   int64  `db:"category" json:"category"`
	Shortname    string `db:"shortname" json:"shortname"`
	Fullname     string `db:"fullname" json:"fullname"`
	Visible      bool   `db:"visible" json:"visible"`
	StartDate    int64  `db:"startdate" json:"startdate"`
	EndDate      int64  `db:"enddate" json:"enddate"`
	TimeCreated  int64  `db:"timecreated" json:"timecreated"`
	TimeModified int64  `db:"timemodified" json:"timemodified"`
}

// UserCourse is a course a user is enrolled in together with the enrolment
// instance that grants access.
type UserCourse struct {
	Course
	EnrolID int64 `db:"enrol_id" json:"enrol_id"`
}

// NewCourse carries the values required to insert a course.
type NewCourse struct {
	CategoryID int64
	Shortname  string
	Fullname   string
	Visible    bool
	StartDate  int64
	EndDate    int64
	// SelfEnrol, when set, is added as an enabled self enrolment instance
	// after the manual one.
	SelfEnrol *SelfEnrolment
}

// SelfEnrolment carries the stored password of a new self enrolment instance.
type SelfEnrolment struct {
	Password string
}
