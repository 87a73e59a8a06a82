package models

// Activity is a course module as listed on the course page.
type Activity struct {
	ID          int64  `db:"id"`
	CourseID    int64  `db:"course"`
	Section     int    `db:"section"`
	SectionName string `db:"sectionname"`
	Module      string `db:"modname"`
	Name        string `db:"name"`
	Visible     bool   `db:"visible"`
}
