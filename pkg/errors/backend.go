package errors

import "net/http"

// BackendCode classifies failures reported by the booking backend procedures.
type BackendCode string

const (
	BackendNoExistingBlock  BackendCode = "NO_EXISTING_BLOCK"
	BackendNotAuthenticated BackendCode = "NOT_AUTHENTICATED"
	BackendSlotFull         BackendCode = "SLOT_FULL"
	BackendAlreadyEnrolled  BackendCode = "ALREADY_ENROLLED"
	BackendBookingDisabled  BackendCode = "BOOKING_DISABLED"
	BackendUnknown          BackendCode = "UNKNOWN"
)

// BackendError carries the classified code and the raw backend message.
type BackendError struct {
	Code   BackendCode
	Detail string
	Err    error
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return string(e.Code) + ": " + e.Detail
	}
	return string(e.Code)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Translate maps a backend code to the user-facing error.
func (e *BackendError) Translate() *Error {
	switch e.Code {
	case BackendNoExistingBlock:
		return Wrap(e, string(e.Code), http.StatusNotFound, "No existing block found to renew.")
	case BackendNotAuthenticated:
		return Wrap(e, ErrSessionExpired.Code, ErrSessionExpired.Status, "Please log in again.")
	case BackendSlotFull:
		return Wrap(e, string(e.Code), http.StatusConflict, "This group is full. Please choose another time.")
	case BackendAlreadyEnrolled:
		return Wrap(e, string(e.Code), http.StatusConflict, "You are already enrolled in this block.")
	case BackendBookingDisabled:
		return Wrap(e, string(e.Code), http.StatusConflict, "Booking is currently closed for this group.")
	default:
		msg := e.Detail
		if msg == "" {
			msg = ErrBackend.Message
		}
		return Wrap(e, ErrBackend.Code, ErrBackend.Status, msg)
	}
}
