package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

const uniqueViolation = "23505"

// ProcedureRepository invokes the booking procedures owned by the backend. Every call runs in a
// transaction scoped to the caller so the procedures can resolve auth.uid().
type ProcedureRepository struct {
	db *sqlx.DB
}

// NewProcedureRepository constructs a procedure repository.
func NewProcedureRepository(db *sqlx.DB) *ProcedureRepository {
	return &ProcedureRepository{db: db}
}

// Book4WeekBlock books the four weekly sessions of a slot starting at startDate.
func (r *ProcedureRepository) Book4WeekBlock(ctx context.Context, callerID, slotID, startDate, packageID string) ([]models.Enrollment, error) {
	const query = `SELECT id, package_id, instance_id, student_id, student_name, notes,
COALESCE(NULLIF(payment_status, ''), 'Pending') AS payment_status, enrolled_at
FROM book_4week_block(slot_uuid => $1, desired_start_date => $2::date, package_id => $3)`
	var rows []models.Enrollment
	err := r.asCaller(ctx, callerID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &rows, query, slotID, startDate, packageID)
	})
	if err != nil {
		return nil, classifyProcedureError("book_4week_block", err)
	}
	return rows, nil
}

// BookMultiSubjectBlock books one slot per subject of a bundle in a single backend transaction.
func (r *ProcedureRepository) BookMultiSubjectBlock(ctx context.Context, callerID, bundleID, startDate string, subjectSlots map[string]string, paymentMode string) error {
	payload, err := json.Marshal(subjectSlots)
	if err != nil {
		return fmt.Errorf("marshal subject slot map: %w", err)
	}
	const query = `SELECT book_multi_subject_block(p_bundle_package_id => $1, p_start_date => $2::date,
p_subject_slot_map => $3::jsonb, p_payment_mode => $4)`
	err = r.asCaller(ctx, callerID, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(ctx, query, bundleID, startDate, string(payload), paymentMode)
		return execErr
	})
	return classifyProcedureError("book_multi_subject_block", err)
}

// EnrollBlock enrolls the caller into the block that starts at the given instance.
func (r *ProcedureRepository) EnrollBlock(ctx context.Context, callerID, startInstanceID, packageID, notes string) error {
	const query = `SELECT enroll_block(start_instance_id => $1, package_id => $2, notes => $3)`
	err := r.asCaller(ctx, callerID, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(ctx, query, startInstanceID, packageID, notes)
		return execErr
	})
	return classifyProcedureError("enroll_block", err)
}

// Renew4WeekBlock appends the next four weeks to the student's latest block in the slot.
func (r *ProcedureRepository) Renew4WeekBlock(ctx context.Context, callerID, studentID, slotID, packageID string) error {
	const query = `SELECT renew_4week_block(p_student_id => $1, p_slot_id => $2, p_package_id => $3)`
	err := r.asCaller(ctx, callerID, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(ctx, query, studentID, slotID, packageID)
		return execErr
	})
	return classifyProcedureError("renew_4week_block", err)
}

// Ensure4WeekBlock idempotently materializes the four dated instances of a block.
func (r *ProcedureRepository) Ensure4WeekBlock(ctx context.Context, callerID, slotID, startDate string) error {
	const query = `SELECT ensure_4week_block(slot_uuid => $1, start_date => $2::date)`
	err := r.asCaller(ctx, callerID, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(ctx, query, slotID, startDate)
		return execErr
	})
	return classifyProcedureError("ensure_4week_block", err)
}

// VerifyBlockPayment marks the enrollments of a student's block as Paid.
func (r *ProcedureRepository) VerifyBlockPayment(ctx context.Context, callerID, studentID, slotID, blockStartDate string) error {
	const query = `SELECT verify_4week_block_payment(p_student_id => $1, p_slot_id => $2, p_block_start_date => $3::date)`
	err := r.asCaller(ctx, callerID, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(ctx, query, studentID, slotID, blockStartDate)
		return execErr
	})
	return classifyProcedureError("verify_4week_block_payment", err)
}

func (r *ProcedureRepository) asCaller(ctx context.Context, callerID string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin procedure tx: %w", err)
	}
	claims, _ := json.Marshal(map[string]string{"sub": callerID, "role": "authenticated"})
	if _, err := tx.ExecContext(ctx, `SELECT set_config('request.jwt.claims', $1, true)`, string(claims)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("scope procedure caller: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit procedure tx: %w", err)
	}
	return nil
}

// classifyProcedureError turns a raised backend exception into a BackendError. Other failures
// (connection, context) are returned wrapped but unclassified.
func classifyProcedureError(procedure string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("%s: %w", procedure, err)
	}
	return &appErrors.BackendError{Code: backendCode(pqErr), Detail: pqErr.Message, Err: err}
}

func backendCode(pqErr *pq.Error) appErrors.BackendCode {
	msg := strings.ToUpper(pqErr.Message)
	switch {
	case strings.Contains(msg, string(appErrors.BackendNoExistingBlock)):
		return appErrors.BackendNoExistingBlock
	case strings.Contains(msg, string(appErrors.BackendNotAuthenticated)):
		return appErrors.BackendNotAuthenticated
	case strings.Contains(msg, string(appErrors.BackendAlreadyEnrolled)), string(pqErr.Code) == uniqueViolation:
		return appErrors.BackendAlreadyEnrolled
	case strings.Contains(msg, string(appErrors.BackendSlotFull)), strings.Contains(msg, "CAPACITY"), strings.Contains(msg, " IS FULL"):
		return appErrors.BackendSlotFull
	case strings.Contains(msg, string(appErrors.BackendBookingDisabled)), strings.Contains(msg, "BOOKING IS DISABLED"):
		return appErrors.BackendBookingDisabled
	}
	return appErrors.BackendUnknown
}
