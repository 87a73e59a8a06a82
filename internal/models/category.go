package models

// Category is a course category. Path is the slash separated id chain stored
// by the host, e.g. "/1/2".
type Category struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Parent    int64  `db:"parent" json:"parent"`
	Depth     int    `db:"depth" json:"depth"`
	Path      string `db:"path" json:"path"`
	Visible   bool   `db:"visible" json:"visible"`
	SortOrder int    `db:"sortorder" json:"sortorder"`
}
