package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

const (
	defaultClassroomProvider = "Google Meet"
	blockLinkNote            = "Academic block link applied by admin."
	manualLinkNote           = "Manual link applied to 4-week block."
)

type blockProcedures interface {
	Ensure4WeekBlock(ctx context.Context, callerID, slotID, startDate string) error
	VerifyBlockPayment(ctx context.Context, callerID, studentID, slotID, blockStartDate string) error
}

type blockInstanceRepository interface {
	List(ctx context.Context, filter models.InstanceFilter) ([]models.GroupInstance, error)
	ApplyBlockLink(ctx context.Context, slotID, from, until string, update models.ClassroomUpdate) (int64, error)
	SetClassroomLinks(ctx context.Context, ids []string, update models.ClassroomUpdate) ([]string, error)
}

type blockRunRepository interface {
	Create(ctx context.Context, run *models.BlockRun) error
	UpdateStatus(ctx context.Context, run *models.BlockRun) error
	FindByID(ctx context.Context, id string) (*models.BlockRun, error)
	List(ctx context.Context, filter models.BlockRunFilter) ([]models.BlockRun, int, error)
}

type rosterReader interface {
	ListRoster(ctx context.Context) ([]models.RosterEntry, error)
}

// BlockService runs the admin block workflows and the payment blocks report.
type BlockService struct {
	procedures blockProcedures
	instances  blockInstanceRepository
	runs       blockRunRepository
	roster     rosterReader
	slots      slotFinder
	audit      auditWriter
	remote     *RemoteCaller
	metrics    *MetricsService
	clock      schedule.Clock
	validator  *validator.Validate
	logger     *zap.Logger
}

// BlockServiceDeps groups the collaborators of BlockService.
type BlockServiceDeps struct {
	Procedures blockProcedures
	Instances  blockInstanceRepository
	Runs       blockRunRepository
	Roster     rosterReader
	Slots      slotFinder
	Audit      auditWriter
	Remote     *RemoteCaller
	Metrics    *MetricsService
	Clock      schedule.Clock
}

// NewBlockService creates an instance of BlockService.
func NewBlockService(deps BlockServiceDeps, validate *validator.Validate, logger *zap.Logger) *BlockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	clock := deps.Clock
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &BlockService{
		procedures: deps.Procedures,
		instances:  deps.Instances,
		runs:       deps.Runs,
		roster:     deps.Roster,
		slots:      deps.Slots,
		audit:      deps.Audit,
		remote:     deps.Remote,
		metrics:    deps.Metrics,
		clock:      clock,
		validator:  validate,
		logger:     logger,
	}
}

// PaymentBlocks groups enrollments into four-session blocks per student and slot, newest first.
func (s *BlockService) PaymentBlocks(ctx context.Context) ([]models.PaymentBlock, error) {
	entries, err := s.roster.ListRoster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	return groupPaymentBlocks(entries), nil
}

func groupPaymentBlocks(entries []models.RosterEntry) []models.PaymentBlock {
	groups := make(map[string][]models.RosterEntry)
	var order []string
	for _, entry := range entries {
		if entry.SlotID == nil || *entry.SlotID == "" {
			continue
		}
		key := derefString(entry.StudentID) + "-" + *entry.SlotID
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], entry)
	}

	blocks := make([]models.PaymentBlock, 0)
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return derefString(group[i].SessionDate) < derefString(group[j].SessionDate)
		})
		for start := 0; start < len(group); start += schedule.BlockWeeks {
			end := start + schedule.BlockWeeks
			if end > len(group) {
				end = len(group)
			}
			blocks = append(blocks, newPaymentBlock(group[start:end]))
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].BlockStartDate > blocks[j].BlockStartDate
	})
	return blocks
}

func newPaymentBlock(chunk []models.RosterEntry) models.PaymentBlock {
	first := chunk[0]
	block := models.PaymentBlock{
		StudentID:      derefString(first.StudentID),
		StudentName:    derefString(first.StudentName),
		SlotID:         derefString(first.SlotID),
		PackageID:      first.PackageID,
		PackageName:    first.PackageID,
		BlockStartDate: derefString(first.SessionDate),
		TotalCount:     len(chunk),
		Enrollments:    make([]models.Enrollment, 0, len(chunk)),
	}
	if pkg, ok := models.FindPackage(first.PackageID); ok {
		block.PackageName = pkg.Name
	}
	for _, entry := range chunk {
		if entry.IsPaid() {
			block.PaidCount++
		} else {
			block.PendingCount++
		}
		block.Enrollments = append(block.Enrollments, entry.Enrollment)
	}
	return block
}

// GenerateBlock ensures the block's instances exist and applies the classroom link to them.
func (s *BlockService) GenerateBlock(ctx context.Context, claims *models.JWTClaims, req dto.GenerateBlockRequest, meta models.RequestMeta) (*dto.BlockRunResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	slot, err := s.loadSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}
	startDate := req.StartDate
	if startDate == "" {
		next, err := schedule.NextOccurrence(slot.DayOfWeek, s.clock.Now())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "slot has an invalid day of week")
		}
		startDate = schedule.FormatDate(next)
	}

	run := &models.BlockRun{
		Kind:           models.BlockRunGenerate,
		SlotID:         slot.ID,
		BlockStartDate: startDate,
		ClassroomURL:   strPtr(strings.TrimSpace(req.ClassroomURL)),
		RequestedBy:    claims.UserID,
	}
	result, err := s.runSaga(ctx, run, req.ClassroomProvider, func(ctx context.Context) error {
		return s.procedures.Ensure4WeekBlock(ctx, claims.UserID, slot.ID, startDate)
	}, "ensure_4week_block")
	if err != nil {
		return nil, err
	}
	recordAudit(context.WithoutCancel(ctx), s.audit, s.logger, auditEntry{
		actorID:    claims.UserID,
		action:     models.AuditActionBlockGenerate,
		resource:   "block_generation_runs",
		resourceID: run.ID,
		newValues:  run,
		meta:       meta,
	})
	return result, nil
}

// VerifyBlock marks a student's block as paid and applies the classroom link to its sessions.
func (s *BlockService) VerifyBlock(ctx context.Context, claims *models.JWTClaims, req dto.VerifyBlockRequest, meta models.RequestMeta) (*dto.BlockRunResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verification payload")
	}
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	slot, err := s.loadSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}

	run := &models.BlockRun{
		Kind:           models.BlockRunVerify,
		SlotID:         slot.ID,
		StudentID:      strPtr(req.StudentID),
		BlockStartDate: req.BlockStartDate,
		ClassroomURL:   strPtr(strings.TrimSpace(req.ClassroomURL)),
		RequestedBy:    claims.UserID,
	}
	result, err := s.runSaga(ctx, run, req.ClassroomProvider, func(ctx context.Context) error {
		return s.procedures.VerifyBlockPayment(ctx, claims.UserID, req.StudentID, slot.ID, req.BlockStartDate)
	}, "verify_4week_block_payment")
	if err != nil {
		return nil, err
	}
	recordAudit(context.WithoutCancel(ctx), s.audit, s.logger, auditEntry{
		actorID:    claims.UserID,
		action:     models.AuditActionBlockVerify,
		resource:   "block_generation_runs",
		resourceID: run.ID,
		newValues:  run,
		meta:       meta,
	})
	return result, nil
}

// runSaga records the run, performs the backend step and then the link step. A failed first
// step marks the run FAILED and returns the error. A failed link step leaves the run
// PARTIALLY_APPLIED because the backend step is not undone. When the first step outlives the
// call timeout the run is TIMED_OUT and the remaining steps run once the step settles.
// Every write uses a context detached from the request so a disconnect cannot strand the run.
func (s *BlockService) runSaga(ctx context.Context, run *models.BlockRun, provider string, step func(context.Context) error, procedure string) (*dto.BlockRunResult, error) {
	start, ok := schedule.ParseSessionDate(run.BlockStartDate, nil)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must use YYYY-MM-DD")
	}
	ctx = context.WithoutCancel(ctx)
	if strings.TrimSpace(provider) == "" {
		provider = defaultClassroomProvider
	}

	run.Status = models.BlockRunPending
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record block run")
	}

	timedOut := make(chan struct{})
	_, err := callRemoteSettled(ctx, s.remote, procedure, "block step failed", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, step(ctx)
	}, func(_ struct{}, lateErr error) {
		<-timedOut
		if lateErr != nil {
			s.finish(ctx, run, models.BlockRunFailed, 0, lateErr)
			return
		}
		s.finish(ctx, run, models.BlockRunBlockEnsured, 0, nil)
		s.applyLink(ctx, run, start, provider)
	})
	if err != nil {
		if errors.Is(err, appErrors.ErrTimeout) {
			s.finish(ctx, run, models.BlockRunTimedOut, 0, err)
			close(timedOut)
			return nil, err
		}
		s.finish(ctx, run, models.BlockRunFailed, 0, err)
		return nil, err
	}
	s.finish(ctx, run, models.BlockRunBlockEnsured, 0, nil)
	return s.applyLink(ctx, run, start, provider), nil
}

// applyLink writes the classroom link onto the block's sessions and settles the run.
func (s *BlockService) applyLink(ctx context.Context, run *models.BlockRun, start time.Time, provider string) *dto.BlockRunResult {
	linkCtx, cancel := context.WithTimeout(ctx, s.remote.Timeout())
	defer cancel()

	from, until := schedule.BlockWindow(start)
	count, err := s.instances.ApplyBlockLink(linkCtx, run.SlotID, schedule.FormatDate(from), schedule.FormatDate(until), models.ClassroomUpdate{
		ClassroomURL:      run.ClassroomURL,
		ClassroomProvider: strPtr(provider),
		ClassroomNotes:    strPtr(blockLinkNote),
	})
	if err != nil {
		s.finish(ctx, run, models.BlockRunPartiallyApplied, 0, err)
		return &dto.BlockRunResult{
			RunID:   run.ID,
			Status:  string(run.Status),
			Message: "Block was created but the classroom link could not be applied. Retry the link step.",
		}
	}

	if count == 0 {
		s.finish(ctx, run, models.BlockRunNoSessionsUpdated, 0, nil)
		return &dto.BlockRunResult{RunID: run.ID, Status: string(run.Status), Message: "No sessions were updated. Check slot/date range."}
	}
	s.finish(ctx, run, models.BlockRunCompleted, int(count), nil)
	return &dto.BlockRunResult{
		RunID:           run.ID,
		Status:          string(run.Status),
		SessionsUpdated: int(count),
		Message:         fmt.Sprintf("Block created (%d sessions).", count),
	}
}

func (s *BlockService) finish(ctx context.Context, run *models.BlockRun, status models.BlockRunStatus, updated int, cause error) {
	run.Status = status
	run.SessionsUpdated = updated
	run.ErrorMessage = nil
	if cause != nil {
		run.ErrorMessage = strPtr(cause.Error())
	}
	if err := s.runs.UpdateStatus(ctx, run); err != nil {
		s.logger.Error("failed to update block run", zap.String("run_id", run.ID), zap.String("status", string(status)), zap.Error(err))
	}
	if status.Terminal() {
		s.metrics.RecordBlockRun(string(run.Kind), string(status))
		s.logger.Info("block run finished", zap.String("run_id", run.ID), zap.String("kind", string(run.Kind)), zap.String("status", string(status)), zap.Int("sessions_updated", updated))
	}
}

// AssignClassroom applies a link to the four weekly sessions of a block. Without overwrite,
// sessions that already carry a link are skipped.
func (s *BlockService) AssignClassroom(ctx context.Context, claims *models.JWTClaims, req dto.AssignClassroomRequest, meta models.RequestMeta) (*dto.AssignClassroomResult, error) {
	if claims == nil || claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Forbidden: Admin access required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "slot_id, start_date and classroom_url are required")
	}
	start, ok := schedule.ParseSessionDate(req.StartDate, nil)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must use YYYY-MM-DD")
	}

	dates := make([]string, 0, schedule.BlockWeeks)
	for _, d := range schedule.BlockDates(start) {
		dates = append(dates, schedule.FormatDate(d))
	}
	instances, err := s.instances.List(ctx, models.InstanceFilter{SlotID: req.SlotID, SessionDays: dates})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to load sessions")
	}
	if len(instances) == 0 {
		return &dto.AssignClassroomResult{
			Outcome: string(models.ClassroomAssignNoSessionsFound),
			Message: "No sessions found to update.",
			Updated: []string{},
		}, nil
	}

	url := strings.TrimSpace(req.ClassroomURL)
	targets := make([]string, 0, len(instances))
	for _, inst := range instances {
		if req.Overwrite || !inst.HasClassroomURL() {
			targets = append(targets, inst.ID)
		}
	}
	skipped := len(instances) - len(targets)
	if len(targets) == 0 {
		return &dto.AssignClassroomResult{
			Outcome: string(models.ClassroomAssignNothingToUpdate),
			Message: "No sessions required updating.",
			Skipped: skipped,
			URL:     url,
			Updated: []string{},
		}, nil
	}

	provider := strings.TrimSpace(req.ClassroomProvider)
	if provider == "" {
		provider = defaultClassroomProvider
	}
	updated, err := s.instances.SetClassroomLinks(ctx, targets, models.ClassroomUpdate{
		ClassroomURL:      &url,
		ClassroomProvider: &provider,
		ClassroomNotes:    strPtr(manualLinkNote),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to update sessions")
	}

	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:   claims.UserID,
		action:    models.AuditActionClassroomAssign,
		resource:  "group_instances",
		newValues: map[string]interface{}{"slot_id": req.SlotID, "start_date": req.StartDate, "url": url, "updated": updated},
		meta:      meta,
	})

	return &dto.AssignClassroomResult{
		Outcome: string(models.ClassroomAssignUpdated),
		Message: fmt.Sprintf("Classroom link applied to %d sessions.", len(updated)),
		Count:   len(updated),
		Skipped: skipped,
		URL:     url,
		Updated: updated,
	}, nil
}

// ListRuns returns recorded block runs newest first.
func (s *BlockService) ListRuns(ctx context.Context, query dto.ListBlockRunsQuery) ([]models.BlockRun, *models.Pagination, error) {
	filter := models.BlockRunFilter{
		SlotID:   strings.TrimSpace(query.SlotID),
		Status:   models.BlockRunStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	runs, total, err := s.runs.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list block runs")
	}
	return runs, pagination(query.Page, query.PageSize, total), nil
}

// GetRun returns one recorded run.
func (s *BlockService) GetRun(ctx context.Context, id string) (*models.BlockRun, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "block run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block run")
	}
	return run, nil
}

func (s *BlockService) loadSlot(ctx context.Context, id string) (*models.RecurringSlot, error) {
	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	return slot, nil
}

func requireAdmin(claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "Forbidden: Admin access required")
	}
	return nil
}
