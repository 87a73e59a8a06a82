package models

import "time"

// SettingOverride is a persisted override of a supporter display setting.
type SettingOverride struct {
	Key       string    `db:"name" json:"name"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Settings is the effective supporter configuration after overrides.
type Settings struct {
	UserDetailsPageLength   int
	UserDetailsOrder        string
	CourseDetailsPageLength int
	CourseDetailsOrder      string
	UserTablePageLength     int
	UserTableOrder          string
	CourseTablePageLength   int
	CourseTableOrder        string
	LevelLabels             string

	UserDetails   UserDetailToggles
	CourseDetails CourseDetailToggles
}

// UserDetailToggles controls which user fields clients display.
type UserDetailToggles struct {
	Username     bool
	IDNumber     bool
	Firstname    bool
	Lastname     bool
	MailAddress  bool
	TimeCreated  bool
	TimeModified bool
	LastLogin    bool
}

// CourseDetailToggles controls which course fields clients display.
type CourseDetailToggles struct {
	Shortname      bool
	Fullname       bool
	Visible        bool
	Path           bool
	TimeCreated    bool
	UsersAmount    bool
	RolesAndAmount bool
}
