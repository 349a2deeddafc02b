package dto

// BookBlockRequest books the four weekly sessions of a slot.
type BookBlockRequest struct {
	SlotID    string `json:"slot_id" validate:"required,uuid"`
	PackageID string `json:"package_id" validate:"required"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// BookBundleRequest books one slot per subject of a multi subject bundle.
type BookBundleRequest struct {
	BundlePackageID string            `json:"bundle_package_id" validate:"required"`
	StartDate       string            `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	SubjectSlotMap  map[string]string `json:"subject_slot_map" validate:"required,min=1,dive,keys,required,endkeys,required,uuid"`
	PaymentMode     string            `json:"payment_mode" validate:"omitempty,oneof=Paid Pending"`
}

// EnrollBlockRequest enrolls into the block starting at an instance.
type EnrollBlockRequest struct {
	StartInstanceID string `json:"start_instance_id" validate:"required,uuid"`
	PackageID       string `json:"package_id" validate:"required"`
	Notes           string `json:"notes" validate:"max=500"`
}

// RenewBlockRequest extends the caller's block in a slot by four weeks.
type RenewBlockRequest struct {
	SlotID    string `json:"slot_id" validate:"required,uuid"`
	PackageID string `json:"package_id" validate:"required"`
}

// BookingResult reports the outcome of a booking call.
type BookingResult struct {
	Message     string      `json:"message"`
	StartDate   string      `json:"start_date,omitempty"`
	Enrollments interface{} `json:"enrollments,omitempty"`
}
