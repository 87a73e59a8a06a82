package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
)

// callLog records the store and authorizer calls a test triggered.
type callLog struct {
	calls []string
}

func (l *callLog) add(name string) {
	if l != nil {
		l.calls = append(l.calls, name)
	}
}

type fakeCourseRepo struct {
	log     *callLog
	courses map[int64]models.Course
	byUser  map[int64][]models.UserCourse
	nextID  int64
	created []models.NewCourse
	// createErr is returned by Create when set.
	createErr error
	// selfErr fails Create for courses with self enrolment; nothing is stored.
	selfErr error
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	f.log.add("courses.FindByID")
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCourseRepo) ExistsByShortname(ctx context.Context, shortname string) (bool, error) {
	f.log.add("courses.ExistsByShortname")
	for _, c := range f.courses {
		if c.Shortname == shortname {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, in models.NewCourse) (*models.Course, error) {
	f.log.add("courses.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if in.SelfEnrol != nil && f.selfErr != nil {
		return nil, f.selfErr
	}
	if f.courses == nil {
		f.courses = make(map[int64]models.Course)
	}
	f.nextID++
	course := models.Course{
		ID:         f.nextID,
		CategoryID: in.CategoryID,
		Shortname:  in.Shortname,
		Fullname:   in.Fullname,
		Visible:    in.Visible,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	}
	f.courses[course.ID] = course
	f.created = append(f.created, in)
	return &course, nil
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	f.log.add("courses.List")
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) ListByUser(ctx context.Context, userID int64) ([]models.UserCourse, error) {
	f.log.add("courses.ListByUser")
	return f.byUser[userID], nil
}

func (f *fakeCourseRepo) SetVisible(ctx context.Context, id int64, visible bool) error {
	f.log.add("courses.SetVisible")
	c, ok := f.courses[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Visible = visible
	f.courses[id] = c
	return nil
}

type fakeCategoryRepo struct {
	log        *callLog
	categories map[int64]models.Category
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	f.log.add("categories.FindByID")
	c, ok := f.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	f.log.add("categories.List")
	return f.sorted(false), nil
}

func (f *fakeCategoryRepo) ListVisible(ctx context.Context) ([]models.Category, error) {
	f.log.add("categories.ListVisible")
	return f.sorted(true), nil
}

func (f *fakeCategoryRepo) ListByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	f.log.add("categories.ListByIDs")
	var out []models.Category
	for _, id := range ids {
		if c, ok := f.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) sorted(visibleOnly bool) []models.Category {
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		if visibleOnly && !c.Visible {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeEnrolmentRepo struct {
	log      *callLog
	enrolled []models.ManualEnrolment
	usage    map[int64][]models.EnrolInstanceUsage
	noManual bool
}

func (f *fakeEnrolmentRepo) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrolInstanceUsage, error) {
	f.log.add("enrolments.ListByCourse")
	return f.usage[courseID], nil
}

func (f *fakeEnrolmentRepo) EnrolManual(ctx context.Context, batch []models.ManualEnrolment) error {
	f.log.add("enrolments.EnrolManual")
	if f.noManual {
		return models.ErrManualInstanceMissing
	}
	f.enrolled = append(f.enrolled, batch...)
	return nil
}

type fakeRoleRepo struct {
	log         *callLog
	roles       map[int64]models.Role
	assignments []models.RoleAssignment
}

func (f *fakeRoleRepo) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	f.log.add("roles.FindByID")
	r, ok := f.roles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (f *fakeRoleRepo) ListAssignable(ctx context.Context) ([]models.Role, error) {
	f.log.add("roles.ListAssignable")
	var out []models.Role
	for _, r := range f.roles {
		if r.Assignable {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeRoleRepo) ListCourseAssignments(ctx context.Context, courseID int64) ([]models.RoleAssignment, error) {
	f.log.add("roles.ListCourseAssignments")
	var out []models.RoleAssignment
	for _, a := range f.assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) ListUserAssignments(ctx context.Context, userID int64) ([]models.RoleAssignment, error) {
	f.log.add("roles.ListUserAssignments")
	var out []models.RoleAssignment
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	log      *callLog
	users    map[int64]models.User
	enrolled map[int64][]models.EnrolledUser
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.log.add("users.FindByID")
	u, ok := f.users[id]
	if !ok || u.Deleted {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	f.log.add("users.List")
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) ListEnrolled(ctx context.Context, courseID int64) ([]models.EnrolledUser, error) {
	f.log.add("users.ListEnrolled")
	return f.enrolled[courseID], nil
}

type fakeActivityRepo struct {
	log        *callLog
	activities map[int64][]models.Activity
}

func (f *fakeActivityRepo) ListByCourse(ctx context.Context, courseID int64) ([]models.Activity, error) {
	f.log.add("activities.ListByCourse")
	return f.activities[courseID], nil
}

// fakeAuthorizer grants the capabilities listed per scope. A nil grants map
// allows everything.
type fakeAuthorizer struct {
	log    *callLog
	grants map[models.Scope][]models.Capability
	// missing scopes fail with NotFound.
	missing map[models.Scope]bool
}

func (f *fakeAuthorizer) Require(ctx context.Context, caller models.Caller, scope models.Scope, caps ...models.Capability) error {
	f.log.add("authz.Require")
	for _, capability := range caps {
		ok, err := f.Has(ctx, caller, scope, capability)
		if err != nil {
			return err
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrForbidden, "missing capability "+string(capability))
		}
	}
	return nil
}

func (f *fakeAuthorizer) Has(ctx context.Context, caller models.Caller, scope models.Scope, capability models.Capability) (bool, error) {
	if caller.UserID <= 0 {
		return false, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if f.missing[scope] {
		return false, appErrors.Clone(appErrors.ErrNotFound, "scope not found")
	}
	if f.grants == nil {
		return true, nil
	}
	for _, granted := range f.grants[scope] {
		if granted == capability {
			return true, nil
		}
	}
	return false, nil
}

type fakeSettings struct {
	settings models.Settings
}

func (f *fakeSettings) Effective(ctx context.Context) (models.Settings, error) {
	return f.settings, nil
}

type fakeCourseCache struct {
	values      map[string]interface{}
	invalidated []string
	hits        int
}

func (f *fakeCourseCache) Get(ctx context.Context, key string, dest interface{}) bool {
	listing, ok := f.values[key].(dto.CourseListing)
	target, isListing := dest.(*dto.CourseListing)
	if !ok || !isListing {
		return false
	}
	*target = listing
	f.hits++
	return true
}

func (f *fakeCourseCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if f.values == nil {
		f.values = make(map[string]interface{})
	}
	f.values[key] = value
}

func (f *fakeCourseCache) Invalidate(ctx context.Context, pattern string) {
	f.invalidated = append(f.invalidated, pattern)
	f.values = nil
}
