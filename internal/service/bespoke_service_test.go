package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

type bespokeRepoStub struct {
	offers    map[string]models.BespokeOffer
	enquiries map[string]models.BespokeEnquiry
}

func newBespokeRepoStub() *bespokeRepoStub {
	return &bespokeRepoStub{offers: map[string]models.BespokeOffer{}, enquiries: map[string]models.BespokeEnquiry{}}
}

func (s *bespokeRepoStub) ListOffers(ctx context.Context) ([]models.BespokeOffer, error) {
	out := make([]models.BespokeOffer, 0, len(s.offers))
	for _, o := range s.offers {
		out = append(out, o)
	}
	return out, nil
}

func (s *bespokeRepoStub) FindOfferByToken(ctx context.Context, token string) (*models.BespokeOffer, error) {
	for _, o := range s.offers {
		if o.PublicToken == token {
			found := o
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *bespokeRepoStub) CreateOffer(ctx context.Context, offer *models.BespokeOffer) error {
	offer.ID = "offer-" + offer.PublicToken[:8]
	s.offers[offer.ID] = *offer
	return nil
}

func (s *bespokeRepoStub) UpdateOfferStatus(ctx context.Context, id string, status models.BespokeOfferStatus, reference *string) error {
	o, ok := s.offers[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.PaymentStatus = status
	o.PaymentReference = reference
	s.offers[id] = o
	return nil
}

func (s *bespokeRepoStub) ListEnquiries(ctx context.Context) ([]models.BespokeEnquiry, error) {
	out := make([]models.BespokeEnquiry, 0, len(s.enquiries))
	for _, e := range s.enquiries {
		out = append(out, e)
	}
	return out, nil
}

func (s *bespokeRepoStub) CreateEnquiry(ctx context.Context, enquiry *models.BespokeEnquiry) error {
	enquiry.ID = "enq-1"
	s.enquiries[enquiry.ID] = *enquiry
	return nil
}

func (s *bespokeRepoStub) UpdateEnquiryStatus(ctx context.Context, id string, status models.EnquiryStatus) error {
	e, ok := s.enquiries[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	s.enquiries[id] = e
	return nil
}

func newBespokeFixture() (*BespokeService, *bespokeRepoStub) {
	repo := newBespokeRepoStub()
	slots := newSlotRepoStub(models.RecurringSlot{ID: mondaySlotID, PackageID: "p-maths-std", DayOfWeek: "Monday", StartTime: "17:00"})
	return NewBespokeService(repo, slots, nil, nil), repo
}

func validOfferRequest() dto.BespokeOfferRequest {
	return dto.BespokeOfferRequest{
		OfferTitle:     " Summer intensive ",
		SlotID:         mondaySlotID,
		BlockStartDate: "2026-07-06",
		CustomPriceGBP: 180,
	}
}

func TestBespokeCreateOfferDefaults(t *testing.T) {
	svc, _ := newBespokeFixture()

	offer, err := svc.CreateOffer(context.Background(), adminClaims(), validOfferRequest())
	require.NoError(t, err)
	assert.Equal(t, "Summer intensive", offer.OfferTitle)
	assert.Equal(t, models.BespokePackageID, offer.PackageID)
	assert.Equal(t, models.BespokeDraft, offer.PaymentStatus)
	assert.Equal(t, "admin-1", offer.CreatedByAdminID)
	_, parseErr := uuid.Parse(offer.PublicToken)
	assert.NoError(t, parseErr)
}

func TestBespokeCreateOfferGuards(t *testing.T) {
	svc, _ := newBespokeFixture()

	_, err := svc.CreateOffer(context.Background(), tutorClaims("tutor-1"), validOfferRequest())
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	req := validOfferRequest()
	req.SlotID = otherSlotID
	_, err = svc.CreateOffer(context.Background(), adminClaims(), req)
	assert.Equal(t, "slot not found", appErrors.FromError(err).Message)

	req = validOfferRequest()
	req.PackageID = "p-unknown"
	_, err = svc.CreateOffer(context.Background(), adminClaims(), req)
	assert.Equal(t, "unknown package", appErrors.FromError(err).Message)

	req = validOfferRequest()
	req.CustomPriceGBP = 0
	_, err = svc.CreateOffer(context.Background(), adminClaims(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestBespokeOfferByToken(t *testing.T) {
	svc, repo := newBespokeFixture()
	offer, err := svc.CreateOffer(context.Background(), adminClaims(), validOfferRequest())
	require.NoError(t, err)

	view, err := svc.OfferByToken(context.Background(), offer.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, "Mon 6 Jul 2026 • 17:00", view.Schedule)
	assert.Equal(t, "Draft", view.PaymentStatus)

	_, err = svc.OfferByToken(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.OfferByToken(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	require.NoError(t, svc.UpdateOfferStatus(context.Background(), offer.ID, dto.BespokeOfferStatusRequest{Status: "Cancelled"}))
	assert.Equal(t, models.BespokeCancelled, repo.offers[offer.ID].PaymentStatus)
	_, err = svc.OfferByToken(context.Background(), offer.PublicToken)
	assert.Equal(t, "This offer is no longer available.", appErrors.FromError(err).Message)
}

func TestBespokeOfferStatusPaidKeepsReference(t *testing.T) {
	svc, repo := newBespokeFixture()
	offer, err := svc.CreateOffer(context.Background(), adminClaims(), validOfferRequest())
	require.NoError(t, err)

	ref := " pi_123 "
	require.NoError(t, svc.UpdateOfferStatus(context.Background(), offer.ID, dto.BespokeOfferStatusRequest{Status: "Paid", PaymentReference: &ref}))
	assert.Equal(t, "pi_123", derefString(repo.offers[offer.ID].PaymentReference))

	err = svc.UpdateOfferStatus(context.Background(), "missing", dto.BespokeOfferStatusRequest{Status: "Sent"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	err = svc.UpdateOfferStatus(context.Background(), offer.ID, dto.BespokeOfferStatusRequest{Status: "Refunded"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestBespokeEnquiries(t *testing.T) {
	svc, _ := newBespokeFixture()

	enquiry, err := svc.SubmitEnquiry(context.Background(), dto.EnquiryRequest{FullName: "Pat", Email: " PAT@Example.com", Message: " Need help with physics "})
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryNew, enquiry.Status)
	assert.Equal(t, "pat@example.com", enquiry.Email)
	assert.Equal(t, "Need help with physics", enquiry.Message)

	_, err = svc.SubmitEnquiry(context.Background(), dto.EnquiryRequest{FullName: "Pat", Email: "pat@example.com", Message: "  "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	require.NoError(t, svc.UpdateEnquiryStatus(context.Background(), "enq-1", dto.EnquiryStatusRequest{Status: "Contacted"}))
	list, err := svc.ListEnquiries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.EnquiryContacted, list[0].Status)
}
