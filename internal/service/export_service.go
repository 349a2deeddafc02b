package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
	"github.com/noah-isme/tuition-portal-api/pkg/export"
	"github.com/noah-isme/tuition-portal-api/pkg/storage"
)

type rosterSource interface {
	Roster(ctx context.Context, claims *models.JWTClaims, instanceID string) ([]models.RosterLine, error)
}

type fileStorage interface {
	Save(rel string, data []byte) (string, error)
	Open(rel string) (*os.File, error)
	Delete(rel string) error
	Sweep(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders session registers and serves them through signed links.
type ExportService struct {
	roster    rosterSource
	instances instanceRepository
	storage   fileStorage
	signer    *storage.SignedURLSigner
	renderers map[models.ExportFormat]datasetRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService with CSV, PDF and XLSX renderers.
func NewExportService(roster rosterSource, instances instanceRepository, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		roster:    roster,
		instances: instances,
		storage:   store,
		signer:    signer,
		renderers: map[models.ExportFormat]datasetRenderer{
			models.ExportFormatCSV:  export.NewCSVExporter(),
			models.ExportFormatPDF:  export.NewPDFExporter(),
			models.ExportFormatXLSX: export.NewXLSXExporter(),
		},
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// ExportRegister renders the register of one instance and returns a signed download link.
func (s *ExportService) ExportRegister(ctx context.Context, claims *models.JWTClaims, instanceID string, req dto.ExportRequest) (*models.ExportResult, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	format := models.ExportFormat(req.Format)
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}

	lines, err := s.roster.Roster(ctx, claims, instanceID)
	if err != nil {
		return nil, err
	}
	inst, err := s.instances.FindByID(ctx, instanceID)
	if err != nil {
		return nil, wrapInternal(err, "failed to load session")
	}

	payload, err := renderer.Render(registerDataset(inst, lines))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	relPath, err := s.storage.Save(registerFilename(inst, exportID, format), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Sign(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("register exported",
		zap.String("instance_id", inst.ID),
		zap.String("format", string(format)),
		zap.Int("students", len(lines)),
	)
	return &models.ExportResult{
		ID:           exportID,
		Format:       format,
		URL:          fmt.Sprintf("%s/exports/%s", prefix, token),
		RelativePath: relPath,
		ExpiresAt:    expiresAt,
	}, nil
}

// Resolve verifies a download token and returns the stored file with its format.
func (s *ExportService) Resolve(token string) (*os.File, models.ExportFormat, error) {
	ticket, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "download link expired")
		}
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "download link invalid")
	}
	file, err := s.storage.Open(ticket.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrOutsideRoot) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	format := models.ExportFormat(strings.TrimPrefix(path.Ext(ticket.Path), "."))
	return file, format, nil
}

// Cleanup removes exports older than ttl, or the configured ResultTTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.Sweep(ttl)
}

func registerDataset(inst *models.GroupInstance, lines []models.RosterLine) export.Dataset {
	headers := []string{"Student", "Payment", "Status", "Recorded", "Note"}
	rows := make([]map[string]string, 0, len(lines))
	for _, line := range lines {
		recorded := "No"
		if line.Recorded {
			recorded = "Yes"
		}
		rows = append(rows, map[string]string{
			"Student":  line.StudentName,
			"Payment":  string(line.PaymentStatus),
			"Status":   string(line.Status),
			"Recorded": recorded,
			"Note":     line.Note,
		})
	}
	subtitle := inst.DayOfWeek + " " + inst.StartTime
	if inst.SessionDate != nil {
		subtitle = *inst.SessionDate + " " + inst.StartTime
	}
	return export.Dataset{
		Title:    "Register: " + inst.Label,
		Subtitle: strings.TrimSpace(subtitle),
		Headers:  headers,
		Rows:     rows,
	}
}

func registerFilename(inst *models.GroupInstance, exportID string, format models.ExportFormat) string {
	date := "undated"
	if inst.SessionDate != nil {
		date = sanitizeFilename(*inst.SessionDate)
	}
	return fmt.Sprintf("registers/%s_%s_%s.%s", sanitizeFilename(inst.Label), date, exportID[:8], format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 60 {
		return result[:60]
	}
	return result
}
