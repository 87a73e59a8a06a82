package dto

// CreateCourseRequest is the create_new_course payload.
type CreateCourseRequest struct {
	Shortname         string `json:"shortname" validate:"required,notblank,max=255"`
	Fullname          string `json:"fullname" validate:"required,notblank,max=254"`
	Visible           *bool  `json:"visible" validate:"required"`
	CategoryID        int64  `json:"categoryid" validate:"required,gt=0"`
	ActivateSelfEnrol bool   `json:"activateselfenrol"`
	SelfEnrolPassword string `json:"selfenrolpassword"`
}

// CreatedCourse is returned after a course has been created.
type CreatedCourse struct {
	ID           int64  `json:"id"`
	Category     int64  `json:"category"`
	Fullname     string `json:"fullname"`
	Shortname    string `json:"shortname"`
	StartDate    int64  `json:"startdate"`
	EndDate      int64  `json:"enddate"`
	Visible      bool   `json:"visible"`
	TimeCreated  int64  `json:"timecreated"`
	TimeModified int64  `json:"timemodified"`
}

// EnrolUserRequest is the enrol_user_into_course payload. CourseID comes from
// the route.
type EnrolUserRequest struct {
	UserID   int64 `json:"userid" validate:"required,gt=0"`
	CourseID int64 `json:"-" validate:"required,gt=0"`
	RoleID   int64 `json:"roleid" validate:"required,gt=0"`
}

// CourseInfo is the get_course_info view.
type CourseInfo struct {
	CourseDetails           CourseDetails       `json:"courseDetails"`
	Config                  CourseDetailsConfig `json:"config"`
	RolesInCourse           []string            `json:"rolesincourse"`
	Roles                   []RoleCount         `json:"roles"`
	Users                   []CourseUser        `json:"users"`
	Activities              []Activity          `json:"activities"`
	Links                   CourseLinks         `json:"links"`
	EnrolmentMethods        []EnrolmentMethod   `json:"enrolmentMethods"`
	IsAllowedToUpdateCourse bool                `json:"isallowedtoupdatecourse"`
}

// CourseDetails holds the flattened course header.
type CourseDetails struct {
	ID            int64  `json:"id"`
	Shortname     string `json:"shortname"`
	Fullname      string `json:"fullname"`
	Visible       bool   `json:"visible"`
	Path          string `json:"path"`
	EnrolledUsers int    `json:"enrolledUsers"`
	TimeCreated   string `json:"timecreated"`
	LevelOne      string `json:"level_one"`
	LevelTwo      string `json:"level_two"`
}

// CourseDetailsConfig tells clients which course fields to show.
type CourseDetailsConfig struct {
	ShowShortname      bool `json:"showshortname"`
	ShowFullname       bool `json:"showfullname"`
	ShowVisible        bool `json:"showvisible"`
	ShowPath           bool `json:"showpath"`
	ShowTimeCreated    bool `json:"showtimecreated"`
	ShowUsersAmount    bool `json:"showusersamount"`
	ShowRolesAndAmount bool `json:"showrolesandamount"`
}

// RoleCount is a row of the per-role breakdown.
type RoleCount struct {
	RoleName   string `json:"roleName"`
	RoleNumber int    `json:"roleNumber"`
}

// CourseUser is a participant row of the course view.
type CourseUser struct {
	ID         int64    `json:"id"`
	Username   string   `json:"username"`
	Firstname  string   `json:"firstname"`
	Lastname   string   `json:"lastname"`
	LastAccess string   `json:"lastaccess"`
	Roles      []string `json:"roles"`
	EnrolID    int64    `json:"enrol_id"`
}

// Activity is a course module row.
type Activity struct {
	Section  string `json:"section"`
	Activity string `json:"activity"`
	Name     string `json:"name"`
	Visible  bool   `json:"visible"`
}

// CourseLinks are navigation links; gated links are absent without capability.
type CourseLinks struct {
	CourseLink   string  `json:"courselink"`
	SettingsLink *string `json:"settingslink,omitempty"`
	DeleteLink   *string `json:"deletelink,omitempty"`
}

// EnrolmentMethod summarises an enrolment instance.
type EnrolmentMethod struct {
	MethodName string `json:"methodname"`
	Enabled    bool   `json:"enabled"`
	Users      int    `json:"users"`
}

// LevelLabels carries the configured names of the category hierarchy levels.
type LevelLabels struct {
	LabelLevel1 string `json:"label_level_1,omitempty"`
	LabelLevel2 string `json:"label_level_2,omitempty"`
	LabelLevel3 string `json:"label_level_3,omitempty"`
	LabelLevel4 string `json:"label_level_4,omitempty"`
	LabelLevel5 string `json:"label_level_5,omitempty"`
}

// CourseListing is the get_courses result.
type CourseListing struct {
	Courses          []CourseSummary `json:"courses"`
	UniqueLevelOnes  []string        `json:"uniquelevelones"`
	UniqueLevelTwoes []string        `json:"uniqueleveltwoes"`
	LevelLabels
}

// CourseSummary is a row of the course table.
type CourseSummary struct {
	ID        int64  `json:"id"`
	Shortname string `json:"shortname"`
	Fullname  string `json:"fullname"`
	LevelOne  string `json:"level_one"`
	LevelTwo  string `json:"level_two"`
	Visible   bool   `json:"visible"`
}

// AssignableRoles is the get_assignable_roles result.
type AssignableRoles struct {
	AssignableRoles []AssignableRole `json:"assignableRoles"`
}

// AssignableRole is a role that may be granted in a course.
type AssignableRole struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryList is the category picker of the course creation form.
type CategoryList struct {
	Categories []CategoryOption `json:"categories"`
}

// CategoryOption is a category with its breadcrumb name.
type CategoryOption struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
	Name string `json:"name"`
}

// ExportRequest selects the export format.
type ExportRequest struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
