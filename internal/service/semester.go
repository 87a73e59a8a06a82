package service

import (
	"regexp"
	"strconv"
	"time"
)

const courseDuration = 6 // months

var (
	winterSemester = regexp.MustCompile(`WiSe\D?(\d{4})`)
	summerSemester = regexp.MustCompile(`SoSe\D?(\d{4})`)
)

// SemesterStart derives the course start from the semester token in the
// shortname: WiSe<year> starts on October 1, SoSe<year> on April 1, both at
// midnight in loc. Shortnames without a token start at now.
func SemesterStart(shortname string, now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if year, ok := semesterYear(winterSemester, shortname); ok {
		return time.Date(year, time.October, 1, 0, 0, 0, 0, loc)
	}
	if year, ok := semesterYear(summerSemester, shortname); ok {
		return time.Date(year, time.April, 1, 0, 0, 0, 0, loc)
	}
	return now.In(loc)
}

// SemesterEnd returns the end date for a course starting at start.
func SemesterEnd(start time.Time) time.Time {
	return start.AddDate(0, courseDuration, 0)
}

func semesterYear(pattern *regexp.Regexp, shortname string) (int, bool) {
	match := pattern.FindStringSubmatch(shortname)
	if match == nil {
		return 0, false
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return year, true
}
