package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-supporter-api/internal/models"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
)

type capabilityRepository interface {
	HasCapability(ctx context.Context, userID int64, capability models.Capability, chain models.ContextChain) (bool, error)
}

type scopeCourseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type scopeCategoryReader interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

// AuthorizationService checks capabilities of a caller against a scope. A
// capability granted in a parent context applies to every child context.
type AuthorizationService struct {
	capabilities capabilityRepository
	courses      scopeCourseReader
	categories   scopeCategoryReader
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewAuthorizationService constructs AuthorizationService.
func NewAuthorizationService(capabilities capabilityRepository, courses scopeCourseReader, categories scopeCategoryReader, metrics *MetricsService, logger *zap.Logger) *AuthorizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorizationService{capabilities: capabilities, courses: courses, categories: categories, metrics: metrics, logger: logger}
}

// Require fails with Forbidden unless caller holds every capability in scope.
// Unknown course or category scopes fail with NotFound.
func (s *AuthorizationService) Require(ctx context.Context, caller models.Caller, scope models.Scope, caps ...models.Capability) error {
	chain, err := s.authenticate(ctx, caller, scope)
	if err != nil {
		return err
	}
	for _, capability := range caps {
		allowed, err := s.check(ctx, caller, chain, capability)
		if err != nil {
			return err
		}
		if !allowed {
			s.logger.Info("capability denied",
				zap.Int64("user_id", caller.UserID),
				zap.String("capability", string(capability)),
				zap.String("scope", scope.String()))
			return appErrors.Clone(appErrors.ErrForbidden, "missing capability "+string(capability))
		}
	}
	return nil
}

// Has reports whether caller holds capability in scope.
func (s *AuthorizationService) Has(ctx context.Context, caller models.Caller, scope models.Scope, capability models.Capability) (bool, error) {
	chain, err := s.authenticate(ctx, caller, scope)
	if err != nil {
		return false, err
	}
	return s.check(ctx, caller, chain, capability)
}

func (s *AuthorizationService) authenticate(ctx context.Context, caller models.Caller, scope models.Scope) (models.ContextChain, error) {
	if caller.UserID <= 0 {
		return models.ContextChain{}, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return s.resolve(ctx, scope)
}

func (s *AuthorizationService) check(ctx context.Context, caller models.Caller, chain models.ContextChain, capability models.Capability) (bool, error) {
	if caller.SiteAdmin {
		s.metrics.RecordCapabilityCheck(string(capability), true)
		return true, nil
	}
	allowed, err := s.capabilities.HasCapability(ctx, caller.UserID, capability, chain)
	if err != nil {
		return false, appErrors.Internal(err, "failed to check capability")
	}
	s.metrics.RecordCapabilityCheck(string(capability), allowed)
	return allowed, nil
}

// resolve expands scope into the chain of contexts it inherits from.
func (s *AuthorizationService) resolve(ctx context.Context, scope models.Scope) (models.ContextChain, error) {
	switch scope.Level {
	case models.ContextSystem:
		return models.ContextChain{}, nil
	case models.ContextCategory:
		ids, err := s.categoryChain(ctx, scope.InstanceID)
		if err != nil {
			return models.ContextChain{}, err
		}
		return models.ContextChain{CategoryIDs: ids}, nil
	case models.ContextCourse:
		course, err := s.courses.FindByID(ctx, scope.InstanceID)
		if err != nil {
			return models.ContextChain{}, appErrors.Lookup(err, "course not found", "failed to load course")
		}
		ids, err := s.categoryChain(ctx, course.CategoryID)
		if err != nil {
			return models.ContextChain{}, err
		}
		return models.ContextChain{CategoryIDs: ids, CourseID: course.ID}, nil
	default:
		return models.ContextChain{}, appErrors.Clone(appErrors.ErrInternal, "unknown scope "+scope.String())
	}
}

func (s *AuthorizationService) categoryChain(ctx context.Context, categoryID int64) ([]int64, error) {
	if categoryID == 0 {
		// the site course lives outside the category tree
		return nil, nil
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, appErrors.Lookup(err, "category not found", "failed to load category")
	}
	ids := pathIDs(category.Path)
	if len(ids) == 0 || ids[len(ids)-1] != category.ID {
		ids = append(ids, category.ID)
	}
	return ids, nil
}

// pathIDs parses a slash separated id chain, skipping malformed segments.
func pathIDs(path string) []int64 {
	var ids []int64
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		id, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
