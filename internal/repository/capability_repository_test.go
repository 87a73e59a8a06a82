package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-supporter-api/internal/models"
)

func TestCapabilityRepositoryHasCapability(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCapabilityRepository(db)

	mock.ExpectQuery("JOIN role_capabilities rc ON rc.roleid = ra.roleid").
		WithArgs(int64(42), "moodle/course:view", int64(models.ContextSystem), int64(models.ContextCategory), sqlmock.AnyArg(), int64(models.ContextCourse), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	allowed, err := repo.HasCapability(context.Background(), 42, models.CapCourseView, models.ContextChain{CategoryIDs: []int64{1, 2}, CourseID: 7})
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
