package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context) ([]models.Announcement, error)
	Create(ctx context.Context, item *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles dashboard announcements.
type AnnouncementService struct {
	repo      announcementRepository
	clock     schedule.Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService creates an instance of AnnouncementService.
func NewAnnouncementService(repo announcementRepository, clock schedule.Clock, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &AnnouncementService{repo: repo, clock: clock, validator: validate, logger: logger}
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return items, nil
}

// Create publishes an announcement signed by the caller. The date defaults to today at the venue.
func (s *AnnouncementService) Create(ctx context.Context, claims *models.JWTClaims, req dto.AnnouncementRequest) (*models.Announcement, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	item := &models.Announcement{
		Title:   req.Title,
		Content: req.Content,
		Date:    req.Date,
	}
	if item.Date == "" {
		item.Date = schedule.FormatDate(s.clock.Now())
	}
	if claims != nil {
		item.Author = claims.FullName
	}
	if item.Author == "" {
		item.Author = "Academic Team"
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	item.CreatedAt = s.clock.Now()
	return item, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}
