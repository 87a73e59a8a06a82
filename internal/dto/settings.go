package dto

// Settings is the get_settings result.
type Settings struct {
	UserDetailsPageLength   int    `json:"user_details_pagelength"`
	UserDetailsOrder        string `json:"user_details_order"`
	CourseDetailsPageLength int    `json:"course_details_pagelength"`
	CourseDetailsOrder      string `json:"course_details_order"`
	UserTablePageLength     int    `json:"user_table_pagelength"`
	UserTableOrder          string `json:"user_table_order"`
	CourseTablePageLength   int    `json:"course_table_pagelength"`
	CourseTableOrder        string `json:"course_table_order"`
}
