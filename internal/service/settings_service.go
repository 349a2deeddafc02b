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
	"github.com/noah-isme/tuition-portal-api/pkg/cache"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Upsert(ctx context.Context, settings *models.PlatformSettings) error
}

var settingsCacheKey = cache.Key("settings", "platform")

// SettingsService serves and updates the platform branding.
type SettingsService struct {
	repo      settingsRepository
	audit     auditWriter
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService creates an instance of SettingsService.
func NewSettingsService(repo settingsRepository, audit auditWriter, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, audit: audit, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// Get returns the settings, falling back to the defaults when the row does not exist.
func (s *SettingsService) Get(ctx context.Context) (*models.PlatformSettings, error) {
	settings, _, err := cached(ctx, s.cache, settingsCacheKey, s.cacheTTL, func(ctx context.Context) (models.PlatformSettings, error) {
		row, err := s.repo.Get(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultPlatformSettings, nil
		}
		if err != nil {
			return models.PlatformSettings{}, err
		}
		return *row, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return &settings, nil
}

// Update writes the settings and drops the cached copy.
func (s *SettingsService) Update(ctx context.Context, req dto.SettingsRequest, actorID string, meta models.RequestMeta) (*models.PlatformSettings, error) {
	req.SupportEmail = strings.TrimSpace(req.SupportEmail)
	req.LogoURL = strings.TrimSpace(req.LogoURL)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	before, _ := s.Get(ctx)
	settings := &models.PlatformSettings{
		SupportEmail: req.SupportEmail,
		LogoURL:      req.LogoURL,
		CompanyName:  req.CompanyName,
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update settings")
	}
	s.cache.Invalidate(ctx, settingsCacheKey)

	recordAudit(ctx, s.audit, s.logger, auditEntry{
		actorID:   actorID,
		action:    models.AuditActionSettingsUpdate,
		resource:  "platform_settings",
		oldValues: before,
		newValues: settings,
		meta:      meta,
	})
	return settings, nil
}
