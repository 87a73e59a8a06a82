package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

// ActivityRepository reads course modules.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ListByCourse returns the modules of a course in section order.
func (r *ActivityRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Activity, error) {
	const query = `SELECT cm.id, cm.course, cs.section, COALESCE(cs.name, '') AS sectionname,
       m.name AS modname, cm.name, cm.visible
FROM course_modules cm
JOIN modules m ON m.id = cm.module
JOIN course_sections cs ON cs.id = cm.section
WHERE cm.course = $1
ORDER BY cs.section, cm.id`
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, courseID); err != nil {
		return nil, fmt.Errorf("list course activities: %w", err)
	}
	return activities, nil
}
