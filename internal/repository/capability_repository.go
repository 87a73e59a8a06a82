package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

// CapabilityRepository answers capability checks from role assignments.
type CapabilityRepository struct {
	db *sqlx.DB
	queryTimer
}

// NewCapabilityRepository constructs the repository.
func NewCapabilityRepository(db *sqlx.DB) *CapabilityRepository {
	return &CapabilityRepository{db: db}
}

// WithMetrics records query timings through observer.
func (r *CapabilityRepository) WithMetrics(observer QueryObserver) *CapabilityRepository {
	r.observer = observer
	return r
}

// HasCapability reports whether the user holds a role granting capability in
// the system context or any context of chain.
func (r *CapabilityRepository) HasCapability(ctx context.Context, userID int64, capability models.Capability, chain models.ContextChain) (bool, error) {
	defer r.observe("capability_check", time.Now())
	const query = `SELECT EXISTS(
    SELECT 1 FROM role_assignments ra
    JOIN role_capabilities rc ON rc.roleid = ra.roleid
    WHERE ra.userid = $1 AND rc.capability = $2 AND (
        ra.contextlevel = $3
        OR (ra.contextlevel = $4 AND ra.instanceid = ANY($5))
        OR (ra.contextlevel = $6 AND ra.instanceid = $7)
    )
)`
	categoryIDs := chain.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}
	var allowed bool
	err := r.db.GetContext(ctx, &allowed, query,
		userID, string(capability),
		models.ContextSystem,
		models.ContextCategory, pq.Array(categoryIDs),
		models.ContextCourse, chain.CourseID,
	)
	if err != nil {
		return false, fmt.Errorf("check capability %s: %w", capability, err)
	}
	return allowed, nil
}
