package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/internal/shaper"
	"github.com/noah-isme/course-supporter-api/pkg/database"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
)

const (
	courseListCacheKey     = "courses:all"
	courseListCachePattern = "courses:*"
)

type courseRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ExistsByShortname(ctx context.Context, shortname string) (bool, error)
	Create(ctx context.Context, in models.NewCourse) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	SetVisible(ctx context.Context, id int64, visible bool) error
}

type categoryRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	ListVisible(ctx context.Context) ([]models.Category, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Category, error)
}

type enrolmentRepository interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.EnrolInstanceUsage, error)
	EnrolManual(ctx context.Context, batch []models.ManualEnrolment) error
}

type courseRoleRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Role, error)
	ListAssignable(ctx context.Context) ([]models.Role, error)
	ListCourseAssignments(ctx context.Context, courseID int64) ([]models.RoleAssignment, error)
}

type participantRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ListEnrolled(ctx context.Context, courseID int64) ([]models.EnrolledUser, error)
}

type activityRepository interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.Activity, error)
}

type authorizer interface {
	Require(ctx context.Context, caller models.Caller, scope models.Scope, caps ...models.Capability) error
	Has(ctx context.Context, caller models.Caller, scope models.Scope, capability models.Capability) (bool, error)
}

type settingsSource interface {
	Effective(ctx context.Context) (models.Settings, error)
}

type courseCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string)
}

// CourseStores groups the stores the course operations read and write.
type CourseStores struct {
	Courses    courseRepository
	Categories categoryRepository
	Enrolments enrolmentRepository
	Roles      courseRoleRepository
	Users      participantRepository
	Activities activityRepository
}

// CourseServiceConfig tunes course behaviour.
type CourseServiceConfig struct {
	Location               *time.Location
	HashSelfEnrolPasswords bool
	CacheTTL               time.Duration
	Now                    func() time.Time
}

// CourseService implements the course supporter operations.
type CourseService struct {
	stores    CourseStores
	authz     authorizer
	settings  settingsSource
	cache     courseCache
	shaper    *shaper.Shaper
	cfg       CourseServiceConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(stores CourseStores, authz authorizer, settings settingsSource, cache courseCache, shape *shaper.Shaper, cfg CourseServiceConfig, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if shape == nil {
		shape = shaper.New(shaper.Options{Location: cfg.Location})
	}
	return &CourseService{
		stores:    stores,
		authz:     authz,
		settings:  settings,
		cache:     cache,
		shaper:    shape,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

// Create creates a course in a category, optionally with self enrolment.
func (s *CourseService) Create(ctx context.Context, caller models.Caller, req dto.CreateCourseRequest) (*dto.CreatedCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	if err := s.authz.Require(ctx, caller, models.CategoryScope(req.CategoryID), models.CapCourseCreate); err != nil {
		return nil, err
	}

	exists, err := s.stores.Courses.ExistsByShortname(ctx, req.Shortname)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check shortname")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "shortname already taken")
	}

	start := SemesterStart(req.Shortname, s.cfg.Now(), s.cfg.Location)
	in := models.NewCourse{
		CategoryID: req.CategoryID,
		Shortname:  req.Shortname,
		Fullname:   req.Fullname,
		Visible:    *req.Visible,
		StartDate:  start.Unix(),
		EndDate:    SemesterEnd(start).Unix(),
	}
	if req.ActivateSelfEnrol {
		password, err := s.enrolPassword(req.SelfEnrolPassword)
		if err != nil {
			return nil, err
		}
		in.SelfEnrol = &models.SelfEnrolment{Password: password}
	}

	course, err := s.stores.Courses.Create(ctx, in)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "shortname already taken")
		}
		return nil, appErrors.Internal(err, "failed to create course")
	}

	s.cache.Invalidate(ctx, courseListCachePattern)
	s.logger.Info("course created",
		zap.Int64("course_id", course.ID),
		zap.String("shortname", course.Shortname),
		zap.Int64("category_id", course.CategoryID),
		zap.Int64("caller_id", caller.UserID))

	created := s.shaper.CreatedCourse(*course)
	return &created, nil
}

func (s *CourseService) enrolPassword(password string) (string, error) {
	if !s.cfg.HashSelfEnrolPasswords || password == "" {
		return password, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", appErrors.Internal(err, "failed to hash enrolment password")
	}
	return string(hash), nil
}

// Enrol enrols a user into a course with a role and returns the course view.
func (s *CourseService) Enrol(ctx context.Context, caller models.Caller, req dto.EnrolUserRequest) (*dto.CourseInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid enrolment payload")
	}
	if err := s.authz.Require(ctx, caller, models.CourseScope(req.CourseID), models.CapManualEnrol); err != nil {
		return nil, err
	}
	if _, err := s.stores.Users.FindByID(ctx, req.UserID); err != nil {
		return nil, appErrors.Lookup(err, "user not found", "failed to load user")
	}
	role, err := s.stores.Roles.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, appErrors.Lookup(err, "role not found", "failed to load role")
	}
	if !role.Assignable {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role is not assignable in courses")
	}

	err = s.stores.Enrolments.EnrolManual(ctx, []models.ManualEnrolment{{UserID: req.UserID, CourseID: req.CourseID, RoleID: req.RoleID}})
	if err != nil {
		if errors.Is(err, models.ErrManualInstanceMissing) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course has no manual enrolment")
		}
		return nil, appErrors.Internal(err, "failed to enrol user")
	}
	s.cache.Invalidate(ctx, courseListCachePattern)
	s.logger.Info("user enrolled",
		zap.Int64("course_id", req.CourseID),
		zap.Int64("user_id", req.UserID),
		zap.Int64("role_id", req.RoleID),
		zap.Int64("caller_id", caller.UserID))

	return s.courseView(ctx, caller, req.CourseID)
}

// Info returns the detailed view of a course.
func (s *CourseService) Info(ctx context.Context, caller models.Caller, courseID int64) (*dto.CourseInfo, error) {
	if err := requireID(courseID, "course id"); err != nil {
		return nil, err
	}
	if err := s.authz.Require(ctx, caller, models.CourseScope(courseID), models.CapCourseView); err != nil {
		return nil, err
	}
	return s.courseView(ctx, caller, courseID)
}

// ToggleVisibility flips the visibility of a course and returns the updated view.
func (s *CourseService) ToggleVisibility(ctx context.Context, caller models.Caller, courseID int64) (*dto.CourseInfo, error) {
	if err := requireID(courseID, "course id"); err != nil {
		return nil, err
	}
	scope := models.CourseScope(courseID)
	if err := s.authz.Require(ctx, caller, scope, models.CapCourseUpdate, models.CapCourseVisibility); err != nil {
		return nil, err
	}
	view, err := s.courseView(ctx, caller, courseID)
	if err != nil {
		return nil, err
	}
	visible := !view.CourseDetails.Visible
	if err := s.stores.Courses.SetVisible(ctx, courseID, visible); err != nil {
		return nil, appErrors.Lookup(err, "course not found", "failed to update course visibility")
	}
	view.CourseDetails.Visible = visible
	s.cache.Invalidate(ctx, courseListCachePattern)
	s.logger.Info("course visibility toggled",
		zap.Int64("course_id", courseID),
		zap.Bool("visible", visible),
		zap.Int64("caller_id", caller.UserID))
	return view, nil
}

// List returns the course table. The boolean reports a cache hit. Only the
// course rows are cached; level labels are applied on every call.
func (s *CourseService) List(ctx context.Context, caller models.Caller) (*dto.CourseListing, bool, error) {
	if err := s.authz.Require(ctx, caller, models.SystemScope(), models.CapCourseViewHiddenCourses); err != nil {
		return nil, false, err
	}
	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, false, err
	}
	labels := shaper.LevelLabels(settings.LevelLabels)

	var cached dto.CourseListing
	if s.cache.Get(ctx, courseListCacheKey, &cached) {
		cached.LevelLabels = labels
		return &cached, true, nil
	}

	courses, err := s.stores.Courses.List(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list courses")
	}
	categories, err := s.stores.Categories.ListVisible(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list categories")
	}

	listing := s.shaper.CourseListing(courses, shaper.NewCategoryIndex(categories), "")
	s.cache.Set(ctx, courseListCacheKey, listing, s.cfg.CacheTTL)
	listing.LevelLabels = labels
	return &listing, false, nil
}

// AssignableRoles lists the roles that can be granted in a course.
func (s *CourseService) AssignableRoles(ctx context.Context, caller models.Caller, courseID int64) (*dto.AssignableRoles, error) {
	if err := requireID(courseID, "course id"); err != nil {
		return nil, err
	}
	if err := s.authz.Require(ctx, caller, models.CourseScope(courseID), models.CapManualEnrol); err != nil {
		return nil, err
	}
	roles, err := s.stores.Roles.ListAssignable(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignable roles")
	}
	out := s.shaper.AssignableRoles(roles)
	return &out, nil
}

// Categories lists the categories a course can be created in.
func (s *CourseService) Categories(ctx context.Context, caller models.Caller) (*dto.CategoryList, error) {
	if err := s.authz.Require(ctx, caller, models.SystemScope(), models.CapCourseCreate); err != nil {
		return nil, err
	}
	categories, err := s.stores.Categories.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list categories")
	}
	out := s.shaper.CategoryOptions(categories)
	return &out, nil
}

func (s *CourseService) courseView(ctx context.Context, caller models.Caller, courseID int64) (*dto.CourseInfo, error) {
	course, err := s.stores.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Lookup(err, "course not found", "failed to load course")
	}
	categories, err := s.courseCategories(ctx, course.CategoryID)
	if err != nil {
		return nil, err
	}
	users, err := s.stores.Users.ListEnrolled(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list participants")
	}
	roles, err := s.stores.Roles.ListAssignable(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignable roles")
	}
	assignments, err := s.stores.Roles.ListCourseAssignments(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list role assignments")
	}
	activities, err := s.stores.Activities.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list activities")
	}
	enrolments, err := s.stores.Enrolments.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrolment methods")
	}
	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}

	scope := models.CourseScope(course.ID)
	canUpdate, err := s.authz.Has(ctx, caller, scope, models.CapCourseUpdate)
	if err != nil {
		return nil, err
	}
	canDelete, err := s.authz.Has(ctx, caller, scope, models.CapCourseDelete)
	if err != nil {
		return nil, err
	}
	canUpdateSystem, err := s.authz.Has(ctx, caller, models.SystemScope(), models.CapCourseUpdate)
	if err != nil {
		return nil, err
	}

	view := s.shaper.CourseInfo(shaper.CourseInfoInput{
		Course:          *course,
		Categories:      categories,
		EnrolledUsers:   users,
		AssignableRoles: roles,
		Assignments:     assignments,
		Activities:      activities,
		Enrolments:      enrolments,
		Settings:        settings,
		CanUpdate:       canUpdate,
		CanDelete:       canDelete,
		CanUpdateSystem: canUpdateSystem,
	})
	return &view, nil
}

// courseCategories indexes the category of a course and its ancestors. A
// missing category yields an empty index.
func (s *CourseService) courseCategories(ctx context.Context, categoryID int64) (shaper.CategoryIndex, error) {
	if categoryID == 0 {
		return shaper.CategoryIndex{}, nil
	}
	category, err := s.stores.Categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shaper.CategoryIndex{}, nil
		}
		return nil, appErrors.Internal(err, "failed to load category")
	}
	ids := append(pathIDs(category.Path), category.ID)
	categories, err := s.stores.Categories.ListByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load category path")
	}
	index := shaper.NewCategoryIndex(categories)
	index[category.ID] = *category
	return index, nil
}

func requireID(id int64, name string) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return nil
}
