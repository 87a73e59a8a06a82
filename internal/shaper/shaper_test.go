package shaper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

func testCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "A", Parent: 0, Depth: 1, Path: "/", Visible: true},
		{ID: 2, Name: "B", Parent: 1, Depth: 2, Path: "/1/", Visible: true},
		{ID: 3, Name: "C", Parent: 2, Depth: 3, Path: "/1/2/", Visible: true},
	}
}

func newTestShaper() *Shaper {
	return New(Options{
		BaseURL:             "https://lms.example.org/",
		Location:            time.FixedZone("CET", 3600),
		StudentArchetype:    "student",
		EnabledEnrolPlugins: []string{"manual", "self"},
	})
}

func TestCategoryIndexLevels(t *testing.T) {
	index := NewCategoryIndex(testCategories())

	one, two := index.Levels(3)
	assert.Equal(t, "A", one)
	assert.Equal(t, "B", two)

	one, two = index.Levels(1)
	assert.Equal(t, "", one)
	assert.Equal(t, "", two)

	one, two = index.Levels(99)
	assert.Equal(t, "", one)
	assert.Equal(t, "", two)
}

func TestCategoryIndexUnresolvableSegment(t *testing.T) {
	index := NewCategoryIndex([]models.Category{
		{ID: 5, Name: "Leaf", Path: "/42/5"},
	})
	one, two := index.Levels(5)
	assert.Equal(t, "", one)
	assert.Equal(t, "Leaf", two)
	assert.Equal(t, "Leaf", index.Breadcrumb("/42/5", " / "))
}

func TestUniqueNames(t *testing.T) {
	got := UniqueNames([]string{"A", "", "A", "B", "A"})
	assert.ElementsMatch(t, []string{"A", "B"}, got)
	assert.Equal(t, []string{"A", "B"}, got)
	assert.Empty(t, UniqueNames(nil))
}

func TestCourseListingUniqueLevels(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Name: "A", Path: "/1"},
		{ID: 2, Name: "B", Path: "/2"},
		{ID: 3, Name: "X", Path: "/1/3"},
	}
	courses := []models.Course{
		{ID: 1, CategoryID: 0, Shortname: "site"},
		{ID: 2, CategoryID: 1, Shortname: "c1"},
		{ID: 3, CategoryID: 3, Shortname: "c2"},
		{ID: 4, CategoryID: 2, Shortname: "c3", Visible: true},
	}

	listing := newTestShaper().CourseListing(courses, NewCategoryIndex(categories), "Faculty;Department")

	require.Len(t, listing.Courses, 3)
	assert.Equal(t, "c1", listing.Courses[0].Shortname)
	assert.ElementsMatch(t, []string{"A", "B"}, listing.UniqueLevelOnes)
	assert.Equal(t, []string{"X"}, listing.UniqueLevelTwoes)
	assert.Equal(t, "Faculty", listing.LabelLevel1)
	assert.Equal(t, "Department", listing.LabelLevel2)
	assert.Empty(t, listing.LabelLevel3)
}

func TestLevelLabels(t *testing.T) {
	labels := LevelLabels("L1; L2;L3;L4;L5;L6")
	assert.Equal(t, "L1", labels.LabelLevel1)
	assert.Equal(t, "L2", labels.LabelLevel2)
	assert.Equal(t, "L5", labels.LabelLevel5)

	raw, err := json.Marshal(LevelLabels("Faculty"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"label_level_1":"Faculty"}`, string(raw))
}

func TestOrderAssignableRoles(t *testing.T) {
	roles := []models.Role{
		{ID: 1, Name: "manager", Archetype: "manager"},
		{ID: 3, Name: "teacher", Archetype: "editingteacher"},
		{ID: 5, Name: "student", Archetype: "student"},
		{ID: 9, Name: "ta", Archetype: "teacher"},
	}

	ordered := OrderAssignableRoles(roles, "student")
	names := make([]string, 0, len(ordered))
	for _, r := range ordered {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"student", "manager", "teacher", "ta"}, names)
	assert.Equal(t, "manager", roles[0].Name, "input must not be reordered")

	unchanged := OrderAssignableRoles(roles[:2], "student")
	assert.Equal(t, roles[:2], unchanged)
}

func TestRoleBreakdown(t *testing.T) {
	assignable := []models.Role{
		{ID: 3, Name: "Teacher"},
		{ID: 5, Name: "Student"},
		{ID: 4, Name: "Assistant"},
	}
	assignments := []models.RoleAssignment{
		{UserID: 10, RoleID: 5},
		{UserID: 11, RoleID: 5},
		{UserID: 12, RoleID: 3},
		{UserID: 12, RoleID: 3},
	}

	counts, names := RoleBreakdown(assignable, assignments)
	require.Len(t, counts, 2)
	assert.Equal(t, "Teacher", counts[0].RoleName)
	assert.Equal(t, 1, counts[0].RoleNumber)
	assert.Equal(t, "Student", counts[1].RoleName)
	assert.Equal(t, 2, counts[1].RoleNumber)
	assert.Equal(t, []string{"Student", "Teacher"}, names)
}

func TestFormatterTimestamp(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	epoch := time.Date(2020, time.October, 1, 14, 35, 0, 0, zone).Unix()

	assert.Equal(t, "01.10.2020 14:35", NewFormatter(zone, false).Timestamp(epoch))
	assert.Equal(t, "01.10.2020 10:02", NewFormatter(zone, true).Timestamp(epoch))
	assert.Equal(t, "", NewFormatter(zone, false).Timestamp(0))
}

func TestEnrolmentMethods(t *testing.T) {
	usages := []models.EnrolInstanceUsage{
		{EnrolInstance: models.EnrolInstance{Plugin: "manual", Status: models.EnrolStatusEnabled}, Users: 4},
		{EnrolInstance: models.EnrolInstance{Plugin: "self", Name: "Key enrolment", Status: models.EnrolStatusDisabled}, Users: 1},
		{EnrolInstance: models.EnrolInstance{Plugin: "guest", Status: models.EnrolStatusEnabled}},
	}

	methods := newTestShaper().EnrolmentMethods(usages)
	require.Len(t, methods, 3)
	assert.Equal(t, "Manual enrolments", methods[0].MethodName)
	assert.True(t, methods[0].Enabled)
	assert.Equal(t, 4, methods[0].Users)
	assert.Equal(t, "Key enrolment", methods[1].MethodName)
	assert.False(t, methods[1].Enabled)
	assert.Equal(t, "Guest access", methods[2].MethodName)
	assert.False(t, methods[2].Enabled, "guest plugin is disabled site-wide")
}

func TestCourseInfo(t *testing.T) {
	s := newTestShaper()
	categories := []models.Category{
		{ID: 1, Name: "Faculty A", Path: "/1"},
		{ID: 2, Name: "Dept B", Path: "/1/2"},
	}
	in := CourseInfoInput{
		Course:     models.Course{ID: 7, CategoryID: 2, Shortname: "WiSe2020-X", Fullname: "Course X", Visible: true},
		Categories: NewCategoryIndex(categories),
		EnrolledUsers: []models.EnrolledUser{
			{ID: 10, Username: "anna", EnrolID: 100},
			{ID: 11, Username: "ben", EnrolID: 101},
		},
		AssignableRoles: []models.Role{{ID: 3, Name: "Teacher"}, {ID: 5, Name: "Student"}},
		Assignments: []models.RoleAssignment{
			{UserID: 10, RoleID: 3, CourseID: 7},
			{UserID: 10, RoleID: 5, CourseID: 7},
		},
		Activities: []models.Activity{{Section: 0, Module: "forum", Name: "News", Visible: true}},
		CanUpdate:  true,
	}

	info := s.CourseInfo(in)
	assert.Equal(t, "Faculty A/Dept B", info.CourseDetails.Path)
	assert.Equal(t, "Faculty A", info.CourseDetails.LevelOne)
	assert.Equal(t, "Dept B", info.CourseDetails.LevelTwo)
	assert.Equal(t, 2, info.CourseDetails.EnrolledUsers)
	assert.Equal(t, []string{"Student", "Teacher"}, info.RolesInCourse)
	require.Len(t, info.Users, 2)
	assert.Equal(t, []string{"Teacher", "Student"}, info.Users[0].Roles)
	assert.Equal(t, []string{}, info.Users[1].Roles)
	assert.Equal(t, "General", info.Activities[0].Section)
	assert.Equal(t, "https://lms.example.org/course/view.php?id=7", info.Links.CourseLink)
	require.NotNil(t, info.Links.SettingsLink)
	assert.Equal(t, "https://lms.example.org/course/edit.php?id=7", *info.Links.SettingsLink)
	assert.Nil(t, info.Links.DeleteLink)
	assert.False(t, info.IsAllowedToUpdateCourse)
}

func TestUserInformationLinks(t *testing.T) {
	s := newTestShaper()
	in := UserInfoInput{
		User: models.User{ID: 42, Username: "anna"},
		Courses: []models.UserCourse{
			{Course: models.Course{ID: 1, CategoryID: 0}},
			{Course: models.Course{ID: 7, CategoryID: 3, Shortname: "X"}, EnrolID: 70},
		},
		Assignments: []models.RoleAssignment{{UserID: 42, RoleID: 5, RoleName: "Student", CourseID: 7}},
		Categories:  NewCategoryIndex(testCategories()),
		Settings:    models.Settings{LevelLabels: "Faculty;Department"},
		SessionKey:  "abc",
		CanLoginAs:  true,
	}

	info := s.UserInformation(in)
	require.Len(t, info.UsersCourses, 1)
	assert.Equal(t, []string{"Student"}, info.UsersCourses[0].Roles)
	assert.Equal(t, "A", info.UsersCourses[0].LevelOne)
	assert.Equal(t, []string{"A"}, info.UniqueLevelOnes)
	assert.Equal(t, "https://lms.example.org/user/profile.php?id=42", info.ProfileLink)
	require.NotNil(t, info.LoginAsLink)
	assert.Equal(t, "https://lms.example.org/course/loginas.php?id=1&user=42&sesskey=abc", *info.LoginAsLink)
	assert.Nil(t, info.EditUserLink)
	assert.Nil(t, info.DeleteUserLink)
	assert.Equal(t, "", info.UserInformation.LastLogin)

	raw, err := json.Marshal(info)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "edituserlink")
}

func TestCategoryOptionsBreadcrumb(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Name: "A", Path: "/1"},
		{ID: 2, Name: "B", Path: "/1/2"},
		{ID: 3, Name: "C", Path: "/1/2/3"},
	}
	list := newTestShaper().CategoryOptions(categories)
	require.Len(t, list.Categories, 3)
	assert.Equal(t, "A / B / C", list.Categories[2].Name)
	assert.Equal(t, "A", list.Categories[0].Name)
}

func TestLinksEscapeSessionKey(t *testing.T) {
	links := NewLinks("https://lms.example.org/")
	assert.Equal(t, "https://lms.example.org/admin/user.php?delete=42&sesskey=a%26b%3Dc", links.DeleteUser(42, "a&b=c"))
	assert.Equal(t, "https://lms.example.org/course/loginas.php?id=1&user=42&sesskey=a+b", links.LoginAs(42, "a b"))
}
