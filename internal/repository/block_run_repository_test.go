package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

func newBlockRunRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestBlockRunRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newBlockRunRepoMock(t)
	defer cleanup()
	repo := NewBlockRunRepository(db)

	mock.ExpectExec(`INSERT INTO block_generation_runs`).
		WithArgs(sqlmock.AnyArg(), models.BlockRunGenerate, "slot-1", nil, "2026-02-16", sqlmock.AnyArg(),
			models.BlockRunPending, 0, nil, "admin-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.BlockRun{Kind: models.BlockRunGenerate, SlotID: "slot-1", BlockStartDate: "2026-02-16", Status: models.BlockRunPending, RequestedBy: "admin-1"}
	require.NoError(t, repo.Create(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRunRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newBlockRunRepoMock(t)
	defer cleanup()
	repo := NewBlockRunRepository(db)

	mock.ExpectExec(`UPDATE block_generation_runs SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), &models.BlockRun{ID: "run-1", Status: models.BlockRunCompleted})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBlockRunRepositoryListPaginates(t *testing.T) {
	db, mock, cleanup := newBlockRunRepoMock(t)
	defer cleanup()
	repo := NewBlockRunRepository(db)

	mock.ExpectQuery(`FROM block_generation_runs WHERE 1=1 AND status = \$1 ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs(models.BlockRunPartiallyApplied).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "slot_id", "status"}).AddRow("run-1", "VERIFY", "slot-1", "PARTIALLY_APPLIED"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM block_generation_runs`).
		WithArgs(models.BlockRunPartiallyApplied).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	runs, total, err := repo.List(context.Background(), models.BlockRunFilter{Status: models.BlockRunPartiallyApplied})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, runs, 1)
	assert.Equal(t, models.BlockRunVerify, runs[0].Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}
