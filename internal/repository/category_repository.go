package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

const categoryColumns = `id, name, parent, depth, path, visible, sortorder`

// CategoryRepository reads course categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs the repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindByID fetches a category.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM course_categories WHERE id = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns every category in sort order.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM course_categories ORDER BY sortorder, id`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListVisible returns visible categories in sort order.
func (r *CategoryRepository) ListVisible(ctx context.Context) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM course_categories WHERE visible = TRUE ORDER BY sortorder, id`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list visible categories: %w", err)
	}
	return categories, nil
}

// ListByIDs returns the categories with the given ids.
func (r *CategoryRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + categoryColumns + ` FROM course_categories WHERE id = ANY($1) ORDER BY depth, id`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list categories by id: %w", err)
	}
	return categories, nil
}
