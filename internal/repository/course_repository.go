package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

const courseColumns = `c.id, c.category, c.shortname, c.fullname, c.visible, c.startdate, c.enddate, c.timecreated, c.timemodified`

// CourseRepository persists courses.
type CourseRepository struct {
	db *sqlx.DB
	queryTimer
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// WithMetrics records query timings through observer.
func (r *CourseRepository) WithMetrics(observer QueryObserver) *CourseRepository {
	r.observer = observer
	return r
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	defer r.observe("course_find", time.Now())
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByShortname reports whether a course uses shortname.
func (r *CourseRepository) ExistsByShortname(ctx context.Context, shortname string) (bool, error) {
	defer r.observe("course_exists", time.Now())
	const query = `SELECT EXISTS(SELECT 1 FROM courses WHERE shortname = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, shortname); err != nil {
		return false, fmt.Errorf("check course shortname: %w", err)
	}
	return exists, nil
}

// Create inserts the course, its default manual enrolment instance and the
// optional self enrolment instance in one transaction.
func (r *CourseRepository) Create(ctx context.Context, in models.NewCourse) (*models.Course, error) {
	defer r.observe("course_create", time.Now())
	now := time.Now().Unix()
	course := models.Course{
		CategoryID:   in.CategoryID,
		Shortname:    in.Shortname,
		Fullname:     in.Fullname,
		Visible:      in.Visible,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		TimeCreated:  now,
		TimeModified: now,
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin course tx: %w", err)
	}
	const insertCourse = `INSERT INTO courses (category, shortname, fullname, visible, startdate, enddate, timecreated, timemodified)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := tx.QueryRowxContext(ctx, insertCourse, course.CategoryID, course.Shortname, course.Fullname, course.Visible,
		course.StartDate, course.EndDate, course.TimeCreated, course.TimeModified).Scan(&course.ID); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("create course: %w", err)
	}
	const insertManual = `INSERT INTO enrol (courseid, enrol, name, status, password, sortorder) VALUES ($1, $2, '', $3, '', 0)`
	if _, err := tx.ExecContext(ctx, insertManual, course.ID, models.EnrolPluginManual, models.EnrolStatusEnabled); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("create manual enrol instance: %w", err)
	}
	if in.SelfEnrol != nil {
		const insertSelf = `INSERT INTO enrol (courseid, enrol, name, status, password, sortorder) VALUES ($1, $2, '', $3, $4, 1)`
		if _, err := tx.ExecContext(ctx, insertSelf, course.ID, models.EnrolPluginSelf, models.EnrolStatusEnabled, in.SelfEnrol.Password); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("create self enrol instance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit course tx: %w", err)
	}
	return &course, nil
}

// List returns all courses ordered by id.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	defer r.observe("course_list", time.Now())
	query := `SELECT ` + courseColumns + ` FROM courses c ORDER BY c.id`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListByUser returns the courses a user is enrolled in with the first user
// enrolment id per course.
func (r *CourseRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserCourse, error) {
	defer r.observe("course_list_by_user", time.Now())
	query := `SELECT DISTINCT ON (c.id) ` + courseColumns + `, ue.id AS enrol_id
FROM user_enrolments ue
JOIN enrol e ON e.id = ue.enrolid
JOIN courses c ON c.id = e.courseid
WHERE ue.userid = $1
ORDER BY c.id, ue.id`
	var courses []models.UserCourse
	if err := r.db.SelectContext(ctx, &courses, query, userID); err != nil {
		return nil, fmt.Errorf("list user courses: %w", err)
	}
	return courses, nil
}

// SetVisible updates the visibility flag of a course.
func (r *CourseRepository) SetVisible(ctx context.Context, id int64, visible bool) error {
	defer r.observe("course_set_visible", time.Now())
	const query = `UPDATE courses SET visible = $1, timemodified = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, visible, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("update course visibility: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update course visibility rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
