package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

const userColumns = `id, username, firstname, lastname, email, idnumber, auth, lang, lastlogin, timecreated, timemodified, deleted`

// UserRepository reads platform users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID fetches a user that has not been deleted.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted = FALSE`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every user that has not been deleted.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted = FALSE ORDER BY lastname, firstname, id`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListEnrolled returns the participants of a course with their last access.
func (r *UserRepository) ListEnrolled(ctx context.Context, courseID int64) ([]models.EnrolledUser, error) {
	const query = `SELECT DISTINCT ON (u.id) u.id, u.username, u.firstname, u.lastname,
       COALESCE(la.timeaccess, 0) AS lastaccess, ue.id AS enrol_id
FROM user_enrolments ue
JOIN enrol e ON e.id = ue.enrolid
JOIN users u ON u.id = ue.userid
LEFT JOIN user_lastaccess la ON la.userid = u.id AND la.courseid = e.courseid
WHERE e.courseid = $1 AND u.deleted = FALSE
ORDER BY u.id, ue.id`
	var users []models.EnrolledUser
	if err := r.db.SelectContext(ctx, &users, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrolled users: %w", err)
	}
	return users, nil
}
