package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/internal/schedule"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type bespokeRepository interface {
	ListOffers(ctx context.Context) ([]models.BespokeOffer, error)
	FindOfferByToken(ctx context.Context, token string) (*models.BespokeOffer, error)
	CreateOffer(ctx context.Context, offer *models.BespokeOffer) error
	UpdateOfferStatus(ctx context.Context, id string, status models.BespokeOfferStatus, reference *string) error
	ListEnquiries(ctx context.Context) ([]models.BespokeEnquiry, error)
	CreateEnquiry(ctx context.Context, enquiry *models.BespokeEnquiry) error
	UpdateEnquiryStatus(ctx context.Context, id string, status models.EnquiryStatus) error
}

// BespokeService manages custom priced offers and plan enquiries.
type BespokeService struct {
	repo      bespokeRepository
	slots     slotFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBespokeService creates an instance of BespokeService.
func NewBespokeService(repo bespokeRepository, slots slotFinder, validate *validator.Validate, logger *zap.Logger) *BespokeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BespokeService{repo: repo, slots: slots, validator: validate, logger: logger}
}

// ListOffers returns every offer newest first.
func (s *BespokeService) ListOffers(ctx context.Context) ([]models.BespokeOffer, error) {
	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offers")
	}
	return offers, nil
}

// CreateOffer stores an offer with a fresh public token for its deep link.
func (s *BespokeService) CreateOffer(ctx context.Context, claims *models.JWTClaims, req dto.BespokeOfferRequest) (*models.BespokeOffer, error) {
	req.OfferTitle = strings.TrimSpace(req.OfferTitle)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offer payload")
	}
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	packageID := strings.TrimSpace(req.PackageID)
	if packageID == "" {
		packageID = models.BespokePackageID
	}
	if _, ok := models.FindPackage(packageID); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown package")
	}
	if _, err := s.slots.FindByID(ctx, req.SlotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	status := models.BespokeOfferStatus(req.Status)
	if status == "" {
		status = models.BespokeDraft
	}
	offer := &models.BespokeOffer{
		CreatedByAdminID: claims.UserID,
		StudentID:        trimmedPtr(req.StudentID),
		OfferTitle:       req.OfferTitle,
		OfferDescription: strings.TrimSpace(req.OfferDescription),
		PackageID:        packageID,
		SlotID:           req.SlotID,
		BlockStartDate:   req.BlockStartDate,
		CustomPriceGBP:   req.CustomPriceGBP,
		PaymentStatus:    status,
		PublicToken:      uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.CreateOffer(ctx, offer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create offer")
	}
	s.logger.Info("bespoke offer created", zap.String("offer_id", offer.ID), zap.String("slot_id", offer.SlotID))
	return offer, nil
}

// UpdateOfferStatus moves an offer through Draft, Sent, Paid and Cancelled.
func (s *BespokeService) UpdateOfferStatus(ctx context.Context, id string, req dto.BespokeOfferStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offer status payload")
	}
	if err := s.repo.UpdateOfferStatus(ctx, id, models.BespokeOfferStatus(req.Status), trimmedPtr(req.PaymentReference)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update offer")
	}
	return nil
}

// OfferByToken resolves the public deep link of an offer.
func (s *BespokeService) OfferByToken(ctx context.Context, token string) (*dto.BespokeOfferView, error) {
	token = strings.TrimSpace(token)
	if _, err := uuid.Parse(token); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "offer not found")
	}
	offer, err := s.repo.FindOfferByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offer")
	}
	if offer.PaymentStatus == models.BespokeCancelled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "This offer is no longer available.")
	}

	view := &dto.BespokeOfferView{
		OfferTitle:       offer.OfferTitle,
		OfferDescription: offer.OfferDescription,
		PackageID:        offer.PackageID,
		SlotID:           offer.SlotID,
		BlockStartDate:   offer.BlockStartDate,
		CustomPriceGBP:   offer.CustomPriceGBP,
		PaymentStatus:    string(offer.PaymentStatus),
	}
	if slot, err := s.slots.FindByID(ctx, offer.SlotID); err == nil {
		view.Schedule = schedule.FormatSchedule(&offer.BlockStartDate, slot.StartTime)
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to load offer slot", zap.String("slot_id", offer.SlotID), zap.Error(err))
	}
	return view, nil
}

// SubmitEnquiry stores a public enquiry with status New.
func (s *BespokeService) SubmitEnquiry(ctx context.Context, req dto.EnquiryRequest) (*models.BespokeEnquiry, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enquiry payload")
	}
	enquiry := &models.BespokeEnquiry{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     trimmedPtr(req.Phone),
		Message:   req.Message,
		Status:    models.EnquiryNew,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateEnquiry(ctx, enquiry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit enquiry")
	}
	return enquiry, nil
}

// ListEnquiries returns enquiries newest first.
func (s *BespokeService) ListEnquiries(ctx context.Context) ([]models.BespokeEnquiry, error) {
	enquiries, err := s.repo.ListEnquiries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enquiries")
	}
	return enquiries, nil
}

// UpdateEnquiryStatus moves an enquiry through follow-up.
func (s *BespokeService) UpdateEnquiryStatus(ctx context.Context, id string, req dto.EnquiryStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enquiry status payload")
	}
	if err := s.repo.UpdateEnquiryStatus(ctx, id, models.EnquiryStatus(req.Status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enquiry")
	}
	return nil
}
