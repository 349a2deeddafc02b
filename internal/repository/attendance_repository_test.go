package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryUpsertUsesConflictKey(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`ON CONFLICT \(instance_id, student_id\)`).
		WithArgs(sqlmock.AnyArg(), "inst-1", "stu-1", "tutor-1", models.AttendancePresent, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`ON CONFLICT \(instance_id, student_id\)`).
		WithArgs(sqlmock.AnyArg(), "inst-1", "stu-2", "tutor-1", models.AttendanceLate, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	note := "10 minutes late"
	err := repo.Upsert(context.Background(), []models.AttendanceRecord{
		{InstanceID: "inst-1", StudentID: "stu-1", TutorID: "tutor-1", Status: models.AttendancePresent},
		{InstanceID: "inst-1", StudentID: "stu-2", TutorID: "tutor-1", Status: models.AttendanceLate, Note: &note},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	require.NoError(t, NewAttendanceRepository(db).Upsert(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByInstance(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(`FROM attendance WHERE instance_id = \$1`).
		WithArgs("inst-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "instance_id", "student_id", "tutor_id", "status", "note", "updated_at"}).
			AddRow("att-1", "inst-1", "stu-1", "tutor-1", "Absent", nil, time.Now()))

	records, err := repo.ListByInstance(context.Background(), "inst-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AttendanceAbsent, records[0].Status)
}
