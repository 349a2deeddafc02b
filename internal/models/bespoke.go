package models

import "time"

// BespokeOfferStatus tracks the lifecycle of a custom offer.
type BespokeOfferStatus string

const (
	BespokeDraft     BespokeOfferStatus = "Draft"
	BespokeSent      BespokeOfferStatus = "Sent"
	BespokePaid      BespokeOfferStatus = "Paid"
	BespokeCancelled BespokeOfferStatus = "Cancelled"
)

// BespokeOffer is a custom priced block sent to one student through a deep link.
type BespokeOffer struct {
	ID               string             `db:"id" json:"id"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
	CreatedByAdminID string             `db:"created_by_admin_id" json:"created_by_admin_id"`
	StudentID        *string            `db:"student_id" json:"student_id,omitempty"`
	OfferTitle       string             `db:"offer_title" json:"offer_title"`
	OfferDescription string             `db:"offer_description" json:"offer_description"`
	PackageID        string             `db:"package_id" json:"package_id"`
	SlotID           string             `db:"slot_id" json:"slot_id"`
	BlockStartDate   string             `db:"block_start_date" json:"block_start_date"`
	CustomPriceGBP   float64            `db:"custom_price_gbp" json:"custom_price_gbp"`
	PaymentStatus    BespokeOfferStatus `db:"payment_status" json:"payment_status"`
	PaymentReference *string            `db:"payment_reference" json:"payment_reference,omitempty"`
	PublicToken      string             `db:"public_token" json:"public_token"`
}

// EnquiryStatus tracks follow-up of a bespoke enquiry.
type EnquiryStatus string

const (
	EnquiryNew       EnquiryStatus = "New"
	EnquiryContacted EnquiryStatus = "Contacted"
	EnquiryClosed    EnquiryStatus = "Closed"
)

// BespokeEnquiry is a public request for a custom plan.
type BespokeEnquiry struct {
	ID        string        `db:"id" json:"id"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	FullName  string        `db:"full_name" json:"full_name"`
	Email     string        `db:"email" json:"email"`
	Phone     *string       `db:"phone" json:"phone,omitempty"`
	Message   string        `db:"message" json:"message"`
	Status    EnquiryStatus `db:"status" json:"status"`
}
