package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/internal/shaper"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
)

var (
	siteAdmin = models.Caller{UserID: 2, SiteAdmin: true, SessionKey: "sess"}
	fixedNow  = time.Date(2021, time.March, 15, 12, 0, 0, 0, time.UTC)
)

type courseFixture struct {
	log        *callLog
	courses    *fakeCourseRepo
	categories *fakeCategoryRepo
	enrolments *fakeEnrolmentRepo
	roles      *fakeRoleRepo
	users      *fakeUserRepo
	activities *fakeActivityRepo
	authz      *fakeAuthorizer
	settings   *fakeSettings
	cache      *fakeCourseCache
	cfg        CourseServiceConfig
}

func newCourseFixture() *courseFixture {
	log := &callLog{}
	return &courseFixture{
		log: log,
		courses: &fakeCourseRepo{log: log, nextID: 10, courses: map[int64]models.Course{
			10: {ID: 10, CategoryID: 2, Shortname: "WiSe2020-X", Fullname: "Course X", Visible: true},
		}},
		categories: &fakeCategoryRepo{log: log, categories: map[int64]models.Category{
			1: {ID: 1, Name: "Faculty A", Path: "/1", Depth: 1, Visible: true},
			2: {ID: 2, Name: "Dept B", Parent: 1, Path: "/1/2", Depth: 2, Visible: true},
		}},
		enrolments: &fakeEnrolmentRepo{log: log, usage: map[int64][]models.EnrolInstanceUsage{
			10: {{EnrolInstance: models.EnrolInstance{ID: 1, CourseID: 10, Plugin: models.EnrolPluginManual, Status: models.EnrolStatusEnabled}, Users: 1}},
		}},
		roles: &fakeRoleRepo{log: log, roles: map[int64]models.Role{
			1: {ID: 1, Shortname: "manager", Name: "Manager", Archetype: "manager", SortOrder: 1},
			3: {ID: 3, Shortname: "editingteacher", Name: "Teacher", Archetype: "editingteacher", SortOrder: 3, Assignable: true},
			5: {ID: 5, Shortname: "student", Name: "Student", Archetype: "student", SortOrder: 5, Assignable: true},
		}, assignments: []models.RoleAssignment{
			{UserID: 7, RoleID: 5, RoleName: "Student", CourseID: 10},
		}},
		users: &fakeUserRepo{log: log, users: map[int64]models.User{
			7: {ID: 7, Username: "alice", Firstname: "Alice", Lastname: "A"},
			8: {ID: 8, Username: "bob", Firstname: "Bob", Lastname: "B"},
		}, enrolled: map[int64][]models.EnrolledUser{
			10: {{ID: 7, Username: "alice", Firstname: "Alice", Lastname: "A", EnrolID: 1}},
		}},
		activities: &fakeActivityRepo{log: log},
		authz:      &fakeAuthorizer{log: log},
		settings:   &fakeSettings{settings: models.Settings{LevelLabels: "Faculty;Department"}},
		cache:      &fakeCourseCache{},
		cfg:        CourseServiceConfig{Location: time.UTC, Now: func() time.Time { return fixedNow }},
	}
}

func (f *courseFixture) service() *CourseService {
	stores := CourseStores{
		Courses:    f.courses,
		Categories: f.categories,
		Enrolments: f.enrolments,
		Roles:      f.roles,
		Users:      f.users,
		Activities: f.activities,
	}
	shape := shaper.New(shaper.Options{BaseURL: "https://lms.example", Location: time.UTC, EnabledEnrolPlugins: []string{models.EnrolPluginManual, models.EnrolPluginSelf}})
	return NewCourseService(stores, f.authz, f.settings, f.cache, shape, f.cfg, NewValidator(), zap.NewNop())
}

func boolPtr(v bool) *bool { return &v }

func createRequest(shortname string) dto.CreateCourseRequest {
	return dto.CreateCourseRequest{Shortname: shortname, Fullname: "Full " + shortname, Visible: boolPtr(true), CategoryID: 2}
}

func TestCourseServiceCreateDerivesSemesterDates(t *testing.T) {
	cases := []struct {
		shortname string
		start     time.Time
	}{
		{"WiSe2020-Intro", time.Date(2020, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{"SoSe2021 Lab", time.Date(2021, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{"Seminar", fixedNow},
	}
	for _, tc := range cases {
		t.Run(tc.shortname, func(t *testing.T) {
			f := newCourseFixture()
			created, err := f.service().Create(context.Background(), siteAdmin, createRequest(tc.shortname))
			require.NoError(t, err)
			assert.Equal(t, tc.start.Unix(), created.StartDate)
			assert.Equal(t, tc.start.AddDate(0, 6, 0).Unix(), created.EndDate)
			assert.Equal(t, int64(2), created.Category)
			assert.True(t, created.Visible)
			assert.Equal(t, []string{courseListCachePattern}, f.cache.invalidated)
		})
	}
}

func TestCourseServiceCreateRejectsTakenShortname(t *testing.T) {
	f := newCourseFixture()
	_, err := f.service().Create(context.Background(), siteAdmin, createRequest("WiSe2020-X"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, f.courses.created)
	assert.Empty(t, f.cache.invalidated)
}

func TestCourseServiceCreateMapsUniqueViolation(t *testing.T) {
	f := newCourseFixture()
	f.courses.createErr = fmt.Errorf("insert course: %w", &pq.Error{Code: "23505"})
	_, err := f.service().Create(context.Background(), siteAdmin, createRequest("WiSe2022-Race"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestCourseServiceCreateValidatesBeforeAnyCall(t *testing.T) {
	blank := createRequest("   ")
	missingVisible := createRequest("WiSe2020-Y")
	missingVisible.Visible = nil
	noCategory := createRequest("WiSe2020-Y")
	noCategory.CategoryID = 0
	blankFullname := createRequest("WiSe2020-Y")
	blankFullname.Fullname = " "

	cases := map[string]dto.CreateCourseRequest{
		"empty shortname": createRequest(""),
		"blank shortname": blank,
		"missing visible": missingVisible,
		"no category":     noCategory,
		"blank fullname":  blankFullname,
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			f := newCourseFixture()
			_, err := f.service().Create(context.Background(), siteAdmin, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Empty(t, f.log.calls)
		})
	}
}

func TestCourseServiceCreateRequiresCapability(t *testing.T) {
	f := newCourseFixture()
	f.authz.grants = map[models.Scope][]models.Capability{}
	_, err := f.service().Create(context.Background(), models.Caller{UserID: 9}, createRequest("WiSe2020-Y"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Equal(t, []string{"authz.Require"}, f.log.calls)
}

func TestCourseServiceCreateActivatesSelfEnrolment(t *testing.T) {
	f := newCourseFixture()
	req := createRequest("WiSe2020-Self")
	req.ActivateSelfEnrol = true
	req.SelfEnrolPassword = "secret"

	_, err := f.service().Create(context.Background(), siteAdmin, req)
	require.NoError(t, err)
	require.Len(t, f.courses.created, 1)
	require.NotNil(t, f.courses.created[0].SelfEnrol)
	assert.Equal(t, "secret", f.courses.created[0].SelfEnrol.Password)
}

func TestCourseServiceCreateWithoutSelfEnrolment(t *testing.T) {
	f := newCourseFixture()
	req := createRequest("WiSe2020-Plain")
	req.SelfEnrolPassword = "ignored"

	_, err := f.service().Create(context.Background(), siteAdmin, req)
	require.NoError(t, err)
	require.Len(t, f.courses.created, 1)
	assert.Nil(t, f.courses.created[0].SelfEnrol)
}

func TestCourseServiceCreateHashesSelfEnrolPassword(t *testing.T) {
	f := newCourseFixture()
	f.cfg.HashSelfEnrolPasswords = true
	req := createRequest("WiSe2020-Hash")
	req.ActivateSelfEnrol = true
	req.SelfEnrolPassword = "secret"

	_, err := f.service().Create(context.Background(), siteAdmin, req)
	require.NoError(t, err)
	require.Len(t, f.courses.created, 1)
	self := f.courses.created[0].SelfEnrol
	require.NotNil(t, self)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(self.Password), []byte("secret")))
}

func TestCourseServiceCreateLeavesNothingWhenSelfEnrolmentFails(t *testing.T) {
	f := newCourseFixture()
	f.courses.selfErr = errors.New("boom")
	req := createRequest("WiSe2020-Retry")
	req.ActivateSelfEnrol = true
	req.SelfEnrolPassword = "secret"
	svc := f.service()

	_, err := svc.Create(context.Background(), siteAdmin, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Empty(t, f.courses.created)
	assert.Empty(t, f.cache.invalidated)

	f.courses.selfErr = nil
	created, err := svc.Create(context.Background(), siteAdmin, req)
	require.NoError(t, err)
	assert.Equal(t, "WiSe2020-Retry", created.Shortname)
	assert.Equal(t, []string{courseListCachePattern}, f.cache.invalidated)
}

func TestCourseServiceEnrol(t *testing.T) {
	f := newCourseFixture()
	view, err := f.service().Enrol(context.Background(), siteAdmin, dto.EnrolUserRequest{UserID: 8, CourseID: 10, RoleID: 3})
	require.NoError(t, err)
	assert.Equal(t, []models.ManualEnrolment{{UserID: 8, CourseID: 10, RoleID: 3}}, f.enrolments.enrolled)
	assert.Equal(t, int64(10), view.CourseDetails.ID)
	assert.Equal(t, "Faculty A/Dept B", view.CourseDetails.Path)
	assert.Equal(t, []string{courseListCachePattern}, f.cache.invalidated)
}

func TestCourseServiceEnrolFailures(t *testing.T) {
	cases := []struct {
		name    string
		req     dto.EnrolUserRequest
		prepare func(f *courseFixture)
		want    *appErrors.Error
	}{
		{"unknown user", dto.EnrolUserRequest{UserID: 99, CourseID: 10, RoleID: 5}, nil, appErrors.ErrNotFound},
		{"unknown role", dto.EnrolUserRequest{UserID: 8, CourseID: 10, RoleID: 99}, nil, appErrors.ErrNotFound},
		{"role not assignable", dto.EnrolUserRequest{UserID: 8, CourseID: 10, RoleID: 1}, nil, appErrors.ErrForbidden},
		{"no manual instance", dto.EnrolUserRequest{UserID: 8, CourseID: 10, RoleID: 5}, func(f *courseFixture) { f.enrolments.noManual = true }, appErrors.ErrPreconditionFailed},
		{"unknown course", dto.EnrolUserRequest{UserID: 8, CourseID: 77, RoleID: 5}, func(f *courseFixture) {
			f.authz.missing = map[models.Scope]bool{models.CourseScope(77): true}
		}, appErrors.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCourseFixture()
			if tc.prepare != nil {
				tc.prepare(f)
			}
			_, err := f.service().Enrol(context.Background(), siteAdmin, tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.enrolments.enrolled)
			assert.Empty(t, f.cache.invalidated)
		})
	}
}

func TestCourseServiceEnrolValidatesBeforeAnyCall(t *testing.T) {
	f := newCourseFixture()
	_, err := f.service().Enrol(context.Background(), siteAdmin, dto.EnrolUserRequest{UserID: 0, CourseID: 10, RoleID: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.log.calls)
}

func TestCourseServiceToggleTwiceRestoresVisibility(t *testing.T) {
	f := newCourseFixture()
	svc := f.service()

	view, err := svc.ToggleVisibility(context.Background(), siteAdmin, 10)
	require.NoError(t, err)
	assert.False(t, view.CourseDetails.Visible)
	assert.False(t, f.courses.courses[10].Visible)

	view, err = svc.ToggleVisibility(context.Background(), siteAdmin, 10)
	require.NoError(t, err)
	assert.True(t, view.CourseDetails.Visible)
	assert.True(t, f.courses.courses[10].Visible)
	assert.Len(t, f.cache.invalidated, 2)
}

func TestCourseServiceToggleNeedsBothCapabilities(t *testing.T) {
	f := newCourseFixture()
	f.authz.grants = map[models.Scope][]models.Capability{
		models.CourseScope(10): {models.CapCourseUpdate},
	}
	_, err := f.service().ToggleVisibility(context.Background(), models.Caller{UserID: 9}, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.True(t, f.courses.courses[10].Visible)
}

func TestCourseServiceInfoGatesLinks(t *testing.T) {
	f := newCourseFixture()
	f.authz.grants = map[models.Scope][]models.Capability{
		models.CourseScope(10): {models.CapCourseView},
	}
	view, err := f.service().Info(context.Background(), models.Caller{UserID: 9}, 10)
	require.NoError(t, err)
	assert.Equal(t, "https://lms.example/course/view.php?id=10", view.Links.CourseLink)
	assert.Nil(t, view.Links.SettingsLink)
	assert.Nil(t, view.Links.DeleteLink)
	assert.False(t, view.IsAllowedToUpdateCourse)
	assert.Equal(t, "Faculty A", view.CourseDetails.LevelOne)
	assert.Equal(t, "Dept B", view.CourseDetails.LevelTwo)
	assert.Equal(t, 1, view.CourseDetails.EnrolledUsers)
	assert.Equal(t, []string{"Student"}, view.RolesInCourse)
}

func TestCourseServiceInfoErrors(t *testing.T) {
	f := newCourseFixture()
	svc := f.service()

	_, err := svc.Info(context.Background(), siteAdmin, 0)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Info(context.Background(), siteAdmin, 404)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Info(context.Background(), models.Caller{}, 10)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestCourseServiceListUsesCache(t *testing.T) {
	f := newCourseFixture()
	svc := f.service()

	listing, hit, err := svc.List(context.Background(), siteAdmin)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, listing.Courses, 1)
	assert.Equal(t, []string{"Faculty A"}, listing.UniqueLevelOnes)
	assert.Equal(t, []string{"Dept B"}, listing.UniqueLevelTwoes)
	assert.Equal(t, "Faculty", listing.LabelLevel1)
	assert.Equal(t, "Department", listing.LabelLevel2)

	_, hit, err = svc.List(context.Background(), siteAdmin)
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = svc.Create(context.Background(), siteAdmin, createRequest("SoSe2022-New"))
	require.NoError(t, err)

	listing, hit, err = svc.List(context.Background(), siteAdmin)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, listing.Courses, 2)
}

func TestCourseServiceListAppliesCurrentLabelsToCachedRows(t *testing.T) {
	f := newCourseFixture()
	svc := f.service()

	_, hit, err := svc.List(context.Background(), siteAdmin)
	require.NoError(t, err)
	require.False(t, hit)
	cached, ok := f.cache.values[courseListCacheKey].(dto.CourseListing)
	require.True(t, ok)
	assert.Empty(t, cached.LabelLevel1)

	f.settings.settings.LevelLabels = "School;Institute"
	listing, hit, err := svc.List(context.Background(), siteAdmin)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "School", listing.LabelLevel1)
	assert.Equal(t, "Institute", listing.LabelLevel2)
	assert.Equal(t, []string{"Faculty A"}, listing.UniqueLevelOnes)
}

func TestCourseServiceAssignableRolesPutsStudentFirst(t *testing.T) {
	f := newCourseFixture()
	roles, err := f.service().AssignableRoles(context.Background(), siteAdmin, 10)
	require.NoError(t, err)
	require.Len(t, roles.AssignableRoles, 2)
	assert.Equal(t, int64(5), roles.AssignableRoles[0].ID)
	assert.Equal(t, int64(3), roles.AssignableRoles[1].ID)
}

func TestCourseServiceCategories(t *testing.T) {
	f := newCourseFixture()
	list, err := f.service().Categories(context.Background(), siteAdmin)
	require.NoError(t, err)
	require.Len(t, list.Categories, 2)
	assert.Equal(t, "Faculty A", list.Categories[0].Name)
	assert.Equal(t, "Faculty A / Dept B", list.Categories[1].Name)
}
