package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

var enrollmentRowColumns = []string{"id", "package_id", "instance_id", "student_id", "student_name", "notes", "payment_status", "enrolled_at"}

func TestEnrollmentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`FROM enrollments e WHERE 1=1 AND e.student_id = \$1 ORDER BY e.enrolled_at DESC`).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows(enrollmentRowColumns).
			AddRow("enr-1", "p-maths-std", "inst-1", "stu-1", "Ada", nil, "Pending", time.Now()))

	items, err := repo.List(context.Background(), models.EnrollmentFilter{StudentID: "stu-1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsPaid())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindForStudentMissing(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`WHERE e.instance_id = \$1 AND e.student_id = \$2`).
		WithArgs("inst-1", "stu-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindForStudent(context.Background(), "inst-1", "stu-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestEnrollmentRepositoryListRoster(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	cols := append(append([]string{}, enrollmentRowColumns...), "slot_id", "session_date")
	mock.ExpectQuery(`JOIN group_instances gi ON gi.id = e.instance_id`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("enr-1", "p-maths-std", "inst-1", "stu-1", "Ada", nil, "Paid", time.Now(), "slot-1", "2026-02-16"))

	entries, err := repo.ListRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "slot-1", *entries[0].SlotID)
	assert.Equal(t, "2026-02-16", *entries[0].SessionDate)
}
