package dto

// BespokeOfferRequest creates a custom priced offer.
type BespokeOfferRequest struct {
	StudentID        *string `json:"student_id" validate:"omitempty,uuid"`
	OfferTitle       string  `json:"offer_title" validate:"required,max=200"`
	OfferDescription string  `json:"offer_description"`
	PackageID        string  `json:"package_id"`
	SlotID           string  `json:"slot_id" validate:"required,uuid"`
	BlockStartDate   string  `json:"block_start_date" validate:"required,datetime=2006-01-02"`
	CustomPriceGBP   float64 `json:"custom_price_gbp" validate:"required,gt=0"`
	Status           string  `json:"status" validate:"omitempty,oneof=Draft Sent"`
}

// BespokeOfferStatusRequest moves an offer through its lifecycle.
type BespokeOfferStatusRequest struct {
	Status           string  `json:"status" validate:"required,oneof=Draft Sent Paid Cancelled"`
	PaymentReference *string `json:"payment_reference"`
}

// BespokeOfferView is the public view of an offer behind its deep link.
type BespokeOfferView struct {
	OfferTitle       string  `json:"offer_title"`
	OfferDescription string  `json:"offer_description"`
	PackageID        string  `json:"package_id"`
	SlotID           string  `json:"slot_id"`
	BlockStartDate   string  `json:"block_start_date"`
	CustomPriceGBP   float64 `json:"custom_price_gbp"`
	PaymentStatus    string  `json:"payment_status"`
	Schedule         string  `json:"schedule,omitempty"`
}

// EnquiryRequest is a public bespoke plan enquiry.
type EnquiryRequest struct {
	FullName string  `json:"full_name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone"`
	Message  string  `json:"message" validate:"required,max=4000"`
}

// EnquiryStatusRequest moves an enquiry through follow-up.
type EnquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=New Contacted Closed"`
}
