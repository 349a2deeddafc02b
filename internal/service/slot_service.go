package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	"github.com/noah-isme/tuition-portal-api/pkg/cache"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type slotRepository interface {
	List(ctx context.Context, filter models.SlotFilter) ([]models.RecurringSlot, error)
	FindByID(ctx context.Context, id string) (*models.RecurringSlot, error)
	Create(ctx context.Context, slot *models.RecurringSlot) error
	Update(ctx context.Context, slot *models.RecurringSlot) error
	Delete(ctx context.Context, id string) error
}

// SlotService manages recurring slots and the public booking catalog.
type SlotService struct {
	repo      slotRepository
	audit     auditWriter
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSlotService creates an instance of SlotService.
func NewSlotService(repo slotRepository, audit auditWriter, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SlotService{repo: repo, audit: audit, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns every slot for the admin schedule view.
func (s *SlotService) List(ctx context.Context, query dto.ListSlotsQuery) ([]models.RecurringSlot, error) {
	slots, err := s.repo.List(ctx, models.SlotFilter{PackageID: strings.TrimSpace(query.PackageID)})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	return slots, nil
}

// Catalog returns booking-enabled slots, optionally for one package. Results are cached.
func (s *SlotService) Catalog(ctx context.Context, packageID string) ([]models.RecurringSlot, bool, error) {
	packageID = strings.TrimSpace(packageID)
	scope := packageID
	if scope == "" {
		scope = "all"
	}
	slots, hit, err := cached(ctx, s.cache, cache.Key("catalog", "slots", scope), s.cacheTTL, func(ctx context.Context) ([]models.RecurringSlot, error) {
		return s.repo.List(ctx, models.SlotFilter{PackageID: packageID, BookingOnly: true})
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	if slots == nil {
		slots = []models.RecurringSlot{}
	}
	return slots, hit, nil
}

// Get returns one slot.
func (s *SlotService) Get(ctx context.Context, id string) (*models.RecurringSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	return slot, nil
}

// Create validates and stores a new slot.
func (s *SlotService) Create(ctx context.Context, req dto.SlotRequest, actorID string, meta models.RequestMeta) (*models.RecurringSlot, error) {
	slot := &models.RecurringSlot{IsBookingEnabled: true}
	if err := s.apply(slot, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
	}
	s.invalidateCatalog(ctx)
	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:    actorID,
		action:     models.AuditActionSlotCreate,
		resource:   "recurring_slots",
		resourceID: slot.ID,
		newValues:  slot,
		meta:       meta,
	})
	return slot, nil
}

// Update replaces the editable fields of a slot.
func (s *SlotService) Update(ctx context.Context, id string, req dto.SlotRequest, actorID string, meta models.RequestMeta) (*models.RecurringSlot, error) {
	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *slot
	if err := s.apply(slot, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot")
	}
	s.invalidateCatalog(ctx)
	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:    actorID,
		action:     models.AuditActionSlotUpdate,
		resource:   "recurring_slots",
		resourceID: slot.ID,
		oldValues:  before,
		newValues:  slot,
		meta:       meta,
	})
	return slot, nil
}

// Delete removes a slot. The caller must confirm explicitly.
func (s *SlotService) Delete(ctx context.Context, id string, confirmed bool, actorID string, meta models.RequestMeta) error {
	if !confirmed {
		return appErrors.Clone(appErrors.ErrConfirmationRequired, "Delete this recurring slot? Repeat the request with confirm=true.")
	}
	slot, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}
	s.invalidateCatalog(ctx)
	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:    actorID,
		action:     models.AuditActionSlotDelete,
		resource:   "recurring_slots",
		resourceID: id,
		oldValues:  slot,
		meta:       meta,
	})
	return nil
}

func (s *SlotService) apply(slot *models.RecurringSlot, req dto.SlotRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	day, err := schedule.CanonicalWeekday(req.DayOfWeek)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day_of_week must be Monday to Sunday")
	}
	if _, _, ok := schedule.ParseClock(req.StartTime); !ok {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must look like 17:00 or 5:00pm")
	}
	if _, ok := models.FindPackage(req.PackageID); !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown package")
	}

	format := models.GroupFormat(req.GroupType)
	slot.PackageID = strings.TrimSpace(req.PackageID)
	slot.Label = strings.TrimSpace(req.Label)
	slot.DayOfWeek = day
	slot.StartTime = schedule.NormalizeTime(req.StartTime)
	slot.DurationMinutes = req.DurationMinutes
	slot.KeyStage = strings.TrimSpace(req.KeyStage)
	slot.GroupType = format
	slot.MaxCapacity = format.Capacity()
	slot.AssignedTutorID = req.AssignedTutorID
	if req.IsBookingEnabled != nil {
		slot.IsBookingEnabled = *req.IsBookingEnabled
	}
	slot.ClassroomProvider = req.ClassroomProvider
	slot.ClassroomURL = req.ClassroomURL
	slot.ClassroomNotes = req.ClassroomNotes
	return nil
}

func (s *SlotService) invalidateCatalog(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.Key("catalog", "slots", "*"))
}
