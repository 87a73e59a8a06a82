package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

// RoleRepository reads the role catalog and course role assignments.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository constructs the repository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByID fetches a role.
func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	const query = `SELECT id, name, shortname, archetype, sortorder, assignable FROM roles WHERE id = $1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, err
	}
	return &role, nil
}

// ListAssignable returns the roles assignable in courses in sort order.
func (r *RoleRepository) ListAssignable(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, name, shortname, archetype, sortorder, assignable FROM roles WHERE assignable = TRUE ORDER BY sortorder, id`
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list assignable roles: %w", err)
	}
	return roles, nil
}

// ListCourseAssignments returns the role assignments made in a course context.
func (r *RoleRepository) ListCourseAssignments(ctx context.Context, courseID int64) ([]models.RoleAssignment, error) {
	const query = `SELECT ra.userid, ra.roleid, r.name AS rolename, ra.instanceid AS courseid
FROM role_assignments ra
JOIN roles r ON r.id = ra.roleid
WHERE ra.contextlevel = $1 AND ra.instanceid = $2
ORDER BY ra.userid, r.sortorder`
	var assignments []models.RoleAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, models.ContextCourse, courseID); err != nil {
		return nil, fmt.Errorf("list course role assignments: %w", err)
	}
	return assignments, nil
}

// ListUserAssignments returns the course context role assignments of a user.
func (r *RoleRepository) ListUserAssignments(ctx context.Context, userID int64) ([]models.RoleAssignment, error) {
	const query = `SELECT ra.userid, ra.roleid, r.name AS rolename, ra.instanceid AS courseid
FROM role_assignments ra
JOIN roles r ON r.id = ra.roleid
WHERE ra.contextlevel = $1 AND ra.userid = $2
ORDER BY ra.instanceid, r.sortorder`
	var assignments []models.RoleAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, models.ContextCourse, userID); err != nil {
		return nil, fmt.Errorf("list user role assignments: %w", err)
	}
	return assignments, nil
}
