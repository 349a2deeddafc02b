package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuition-portal-api/internal/models"
)

const bespokeOfferColumns = `id, created_at, created_by_admin_id, student_id, offer_title, COALESCE(offer_description, '') AS offer_description,
package_id, slot_id, block_start_date::text AS block_start_date, custom_price_gbp, payment_status, payment_reference, public_token`

// BespokeRepository manages bespoke offers and enquiries.
type BespokeRepository struct {
	db *sqlx.DB
}

// NewBespokeRepository constructs a bespoke repository.
func NewBespokeRepository(db *sqlx.DB) *BespokeRepository {
	return &BespokeRepository{db: db}
}

// ListOffers returns offers newest first.
func (r *BespokeRepository) ListOffers(ctx context.Context) ([]models.BespokeOffer, error) {
	var offers []models.BespokeOffer
	if err := r.db.SelectContext(ctx, &offers, `SELECT `+bespokeOfferColumns+` FROM bespoke_offers ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list bespoke offers: %w", err)
	}
	return offers, nil
}

// FindOfferByToken resolves a deep-link token. Missing rows surface sql.ErrNoRows.
func (r *BespokeRepository) FindOfferByToken(ctx context.Context, token string) (*models.BespokeOffer, error) {
	var offer models.BespokeOffer
	if err := r.db.GetContext(ctx, &offer, `SELECT `+bespokeOfferColumns+` FROM bespoke_offers WHERE public_token = $1`, token); err != nil {
		return nil, err
	}
	return &offer, nil
}

// CreateOffer stores an offer.
func (r *BespokeRepository) CreateOffer(ctx context.Context, offer *models.BespokeOffer) error {
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	const query = `INSERT INTO bespoke_offers (id, created_by_admin_id, student_id, offer_title, offer_description, package_id,
slot_id, block_start_date, custom_price_gbp, payment_status, payment_reference, public_token)
VALUES (:id, :created_by_admin_id, :student_id, :offer_title, :offer_description, :package_id,
:slot_id, :block_start_date, :custom_price_gbp, :payment_status, :payment_reference, :public_token)`
	if _, err := r.db.NamedExecContext(ctx, query, offer); err != nil {
		return fmt.Errorf("create bespoke offer: %w", err)
	}
	return nil
}

// UpdateOfferStatus changes the payment status and reference of an offer.
func (r *BespokeRepository) UpdateOfferStatus(ctx context.Context, id string, status models.BespokeOfferStatus, reference *string) error {
	const query = `UPDATE bespoke_offers SET payment_status = $2, payment_reference = COALESCE($3, payment_reference) WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, reference)
	if err != nil {
		return fmt.Errorf("update bespoke offer status: %w", err)
	}
	return expectAffected(res)
}

// ListEnquiries returns enquiries newest first.
func (r *BespokeRepository) ListEnquiries(ctx context.Context) ([]models.BespokeEnquiry, error) {
	const query = `SELECT id, created_at, full_name, email, phone, COALESCE(message, '') AS message, status
FROM bespoke_enquiries ORDER BY created_at DESC`
	var enquiries []models.BespokeEnquiry
	if err := r.db.SelectContext(ctx, &enquiries, query); err != nil {
		return nil, fmt.Errorf("list bespoke enquiries: %w", err)
	}
	return enquiries, nil
}

// CreateEnquiry stores a public enquiry.
func (r *BespokeRepository) CreateEnquiry(ctx context.Context, enquiry *models.BespokeEnquiry) error {
	if enquiry.ID == "" {
		enquiry.ID = uuid.NewString()
	}
	const query = `INSERT INTO bespoke_enquiries (id, full_name, email, phone, message, status)
VALUES (:id, :full_name, :email, :phone, :message, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, enquiry); err != nil {
		return fmt.Errorf("create bespoke enquiry: %w", err)
	}
	return nil
}

// UpdateEnquiryStatus changes the follow-up status of an enquiry.
func (r *BespokeRepository) UpdateEnquiryStatus(ctx context.Context, id string, status models.EnquiryStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bespoke_enquiries SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update bespoke enquiry status: %w", err)
	}
	return expectAffected(res)
}
