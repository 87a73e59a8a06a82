package shaper

import "time"

const (
	displayLayout = "02.01.2006 15:04"
	// legacyLayout renders month and 12-hour clock where hour and minute
	// belong, matching what existing clients of the host display.
	legacyLayout = "02.01.2006 01:03"
)

// Formatter renders epoch seconds for human-facing fields.
type Formatter struct {
	loc    *time.Location
	layout string
}

// NewFormatter builds a formatter for the given zone. A nil location means UTC.
func NewFormatter(loc *time.Location, legacy bool) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	layout := displayLayout
	if legacy {
		layout = legacyLayout
	}
	return Formatter{loc: loc, layout: layout}
}

// Timestamp formats epoch. Zero means "never" and renders as an empty string.
func (f Formatter) Timestamp(epoch int64) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).In(f.loc).Format(f.layout)
}
