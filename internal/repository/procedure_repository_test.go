package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

func newProcedureRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestProcedureRepositoryRenewClassifiesNoExistingBlock(t *testing.T) {
	db, mock, cleanup := newProcedureRepoMock(t)
	defer cleanup()
	repo := NewProcedureRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\('request.jwt.claims'`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT renew_4week_block`).
		WithArgs("stu-1", "slot-1", "p-maths-std").
		WillReturnError(&pq.Error{Code: "P0001", Message: "NO_EXISTING_BLOCK"})
	mock.ExpectRollback()

	err := repo.Renew4WeekBlock(context.Background(), "parent-1", "stu-1", "slot-1", "p-maths-std")
	var backendErr *appErrors.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, appErrors.BackendNoExistingBlock, backendErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcedureRepositoryEnsureCommits(t *testing.T) {
	db, mock, cleanup := newProcedureRepoMock(t)
	defer cleanup()
	repo := NewProcedureRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT ensure_4week_block`).
		WithArgs("slot-1", "2026-02-16").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Ensure4WeekBlock(context.Background(), "admin-1", "slot-1", "2026-02-16"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcedureRepositoryBookMultiSubjectSendsJSONMap(t *testing.T) {
	db, mock, cleanup := newProcedureRepoMock(t)
	defer cleanup()
	repo := NewProcedureRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT book_multi_subject_block`).
		WithArgs("p-ms-2-std", "2026-02-16", `{"GCSE Maths":"slot-1"}`, "Paid").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.BookMultiSubjectBlock(context.Background(), "stu-1", "p-ms-2-std", "2026-02-16", map[string]string{"GCSE Maths": "slot-1"}, "Paid")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackendCodeClassification(t *testing.T) {
	cases := []struct {
		err  *pq.Error
		code appErrors.BackendCode
	}{
		{&pq.Error{Message: "NOT_AUTHENTICATED"}, appErrors.BackendNotAuthenticated},
		{&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}, appErrors.BackendAlreadyEnrolled},
		{&pq.Error{Message: "Group capacity reached"}, appErrors.BackendSlotFull},
		{&pq.Error{Message: "SLOT_FULL"}, appErrors.BackendSlotFull},
		{&pq.Error{Message: "BOOKING_DISABLED for slot"}, appErrors.BackendBookingDisabled},
		{&pq.Error{Message: "something else"}, appErrors.BackendUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, backendCode(tc.err), tc.err.Message)
	}
}

func TestClassifyProcedureErrorLeavesTransportErrors(t *testing.T) {
	err := classifyProcedureError("enroll_block", context.DeadlineExceeded)
	var backendErr *appErrors.BackendError
	assert.False(t, errors.As(err, &backendErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoError(t, classifyProcedureError("enroll_block", nil))
}
