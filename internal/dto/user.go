package dto

// UserInformation is the get_user_information view.
type UserInformation struct {
	UserInformation        UserDetails       `json:"userinformation"`
	Config                 UserDetailsConfig `json:"config"`
	UsersCourses           []UserCourse      `json:"userscourses"`
	UniqueLevelOnes        []string          `json:"uniquelevelones"`
	UniqueLevelTwoes       []string          `json:"uniqueleveltwoes"`
	ProfileLink            string            `json:"profilelink"`
	EditUserLink           *string           `json:"edituserlink,omitempty"`
	DeleteUserLink         *string           `json:"deleteuserlink,omitempty"`
	LoginAsLink            *string           `json:"loginaslink,omitempty"`
	IsAllowedToUpdateUsers bool              `json:"isallowedtoupdateusers"`
	LevelLabels
}

// UserDetails holds the display fields of a user.
type UserDetails struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	TimeCreated  string `json:"timecreated"`
	TimeModified string `json:"timemodified"`
	LastLogin    string `json:"lastlogin"`
	Lang         string `json:"lang"`
	Auth         string `json:"auth"`
	IDNumber     string `json:"idnumber"`
}

// UserDetailsConfig tells clients which user fields to show.
type UserDetailsConfig struct {
	ShowUsername     bool `json:"showusername"`
	ShowIDNumber     bool `json:"showidnumber"`
	ShowFirstname    bool `json:"showfirstname"`
	ShowLastname     bool `json:"showlastname"`
	ShowMailAddress  bool `json:"showmailadress"`
	ShowTimeCreated  bool `json:"showtimecreated"`
	ShowTimeModified bool `json:"showtimemodified"`
	ShowLastLogin    bool `json:"showlastlogin"`
}

// UserCourse is a course the user is enrolled in.
type UserCourse struct {
	ID        int64    `json:"id"`
	Category  int64    `json:"category"`
	Shortname string   `json:"shortname"`
	Fullname  string   `json:"fullname"`
	StartDate int64    `json:"startdate"`
	Visible   bool     `json:"visible"`
	LevelOne  string   `json:"level_one"`
	LevelTwo  string   `json:"level_two"`
	Roles     []string `json:"roles"`
	EnrolID   int64    `json:"enrol_id"`
}

// UserList is the get_users result.
type UserList struct {
	Users []UserSummary `json:"users"`
}

// UserSummary is a row of the user table.
type UserSummary struct {
	ID        int64  `json:"id"`
	IDNumber  string `json:"idnumber"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}
