package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/internal/shaper"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type userCourseRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.UserCourse, error)
}

type userRoleRepository interface {
	ListUserAssignments(ctx context.Context, userID int64) ([]models.RoleAssignment, error)
}

type userCategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
}

// UserService serves the user table and the per-user view.
type UserService struct {
	users      userRepository
	courses    userCourseRepository
	roles      userRoleRepository
	categories userCategoryRepository
	authz      authorizer
	settings   settingsSource
	shaper     *shaper.Shaper
	logger     *zap.Logger
}

// NewUserService constructs UserService.
func NewUserService(users userRepository, courses userCourseRepository, roles userRoleRepository, categories userCategoryRepository, authz authorizer, settings settingsSource, shape *shaper.Shaper, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shape == nil {
		shape = shaper.New(shaper.Options{})
	}
	return &UserService{
		users:      users,
		courses:    courses,
		roles:      roles,
		categories: categories,
		authz:      authz,
		settings:   settings,
		shaper:     shape,
		logger:     logger,
	}
}

// Information returns the detailed view of one user.
func (s *UserService) Information(ctx context.Context, caller models.Caller, userID int64) (*dto.UserInformation, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}
	system := models.SystemScope()
	if err := s.authz.Require(ctx, caller, system, models.CapUserViewDetails); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, appErrors.Lookup(err, "user not found", "failed to load user")
	}
	courses, err := s.courses.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list user courses")
	}
	assignments, err := s.roles.ListUserAssignments(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list user roles")
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list categories")
	}
	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}

	canUpdate, err := s.authz.Has(ctx, caller, system, models.CapUserUpdate)
	if err != nil {
		return nil, err
	}
	canDelete, err := s.authz.Has(ctx, caller, system, models.CapUserDelete)
	if err != nil {
		return nil, err
	}
	canLoginAs, err := s.authz.Has(ctx, caller, system, models.CapUserLoginAs)
	if err != nil {
		return nil, err
	}

	view := s.shaper.UserInformation(shaper.UserInfoInput{
		User:        *user,
		Courses:     courses,
		Assignments: assignments,
		Categories:  shaper.NewCategoryIndex(categories),
		Settings:    settings,
		SessionKey:  caller.SessionKey,
		CanUpdate:   canUpdate,
		CanDelete:   canDelete,
		CanLoginAs:  canLoginAs && caller.UserID != user.ID,
	})
	return &view, nil
}

// List returns every non-deleted user.
func (s *UserService) List(ctx context.Context, caller models.Caller) (*dto.UserList, error) {
	if err := s.authz.Require(ctx, caller, models.SystemScope(), models.CapSiteViewParticipants); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	out := s.shaper.UserList(users)
	return &out, nil
}
