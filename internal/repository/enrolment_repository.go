package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

const enrolColumns = `e.id, e.courseid, e.enrol, e.name, e.status, e.password, e.sortorder`

// EnrolmentRepository persists enrolment instances and user enrolments.
type EnrolmentRepository struct {
	db *sqlx.DB
}

// NewEnrolmentRepository constructs the repository.
func NewEnrolmentRepository(db *sqlx.DB) *EnrolmentRepository {
	return &EnrolmentRepository{db: db}
}

// ListByCourse returns the enrolment instances of a course with their user counts.
func (r *EnrolmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrolInstanceUsage, error) {
	query := `SELECT ` + enrolColumns + `, COUNT(ue.id) AS users
FROM enrol e
LEFT JOIN user_enrolments ue ON ue.enrolid = e.id
WHERE e.courseid = $1
GROUP BY e.id
ORDER BY e.sortorder, e.id`
	var usages []models.EnrolInstanceUsage
	if err := r.db.SelectContext(ctx, &usages, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrol instances: %w", err)
	}
	return usages, nil
}

// EnrolManual enrols a batch of users through the manual instance of their
// course and assigns the requested role in the course context. Existing
// enrolments and assignments are left untouched.
func (r *EnrolmentRepository) EnrolManual(ctx context.Context, batch []models.ManualEnrolment) error {
	if len(batch) == 0 {
		return nil
	}
	now := time.Now().Unix()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrol tx: %w", err)
	}
	const findManual = `SELECT id FROM enrol WHERE courseid = $1 AND enrol = $2 ORDER BY sortorder, id LIMIT 1`
	const insertEnrolment = `INSERT INTO user_enrolments (enrolid, userid, timecreated)
VALUES ($1, $2, $3) ON CONFLICT (enrolid, userid) DO NOTHING`
	const insertAssignment = `INSERT INTO role_assignments (roleid, userid, contextlevel, instanceid, timemodified)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (roleid, userid, contextlevel, instanceid) DO NOTHING`

	for _, item := range batch {
		var enrolID int64
		if err := tx.GetContext(ctx, &enrolID, findManual, item.CourseID, models.EnrolPluginManual); err != nil {
			_ = tx.Rollback()
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrManualInstanceMissing
			}
			return fmt.Errorf("find manual instance: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertEnrolment, enrolID, item.UserID, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("create user enrolment: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertAssignment, item.RoleID, item.UserID, models.ContextCourse, item.CourseID, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("assign course role: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enrol tx: %w", err)
	}
	return nil
}
