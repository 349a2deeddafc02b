package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type bookingService interface {
	BookBlock(ctx context.Context, claims *models.JWTClaims, req dto.BookBlockRequest) (*dto.BookingResult, error)
	BookBundle(ctx context.Context, claims *models.JWTClaims, req dto.BookBundleRequest) (*dto.BookingResult, error)
	EnrollBlock(ctx context.Context, claims *models.JWTClaims, req dto.EnrollBlockRequest) (*dto.BookingResult, error)
	RenewBlock(ctx context.Context, claims *models.JWTClaims, req dto.RenewBlockRequest) (*dto.BookingResult, error)
}

// BookingHandler forwards bookings to the backend procedures.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// BookBlock godoc
// @Summary Book a four week block in a slot
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.BookBlockRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /bookings/block [post]
func (h *BookingHandler) BookBlock(c *gin.Context) {
	var req dto.BookBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid booking payload"))
		return
	}
	result, err := h.service.BookBlock(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// BookBundle godoc
// @Summary Book a multi subject bundle
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.BookBundleRequest true "Bundle payload"
// @Success 201 {object} response.Envelope
// @Router /bookings/bundle [post]
func (h *BookingHandler) BookBundle(c *gin.Context) {
	var req dto.BookBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid bundle payload"))
		return
	}
	result, err := h.service.BookBundle(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// EnrollBlock godoc
// @Summary Enroll into the block starting at an instance
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EnrollBlockRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /bookings/enroll [post]
func (h *BookingHandler) EnrollBlock(c *gin.Context) {
	var req dto.EnrollBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid enrollment payload"))
		return
	}
	result, err := h.service.EnrollBlock(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// RenewBlock godoc
// @Summary Renew the caller's block in a slot
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RenewBlockRequest true "Renewal payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookings/renew [post]
func (h *BookingHandler) RenewBlock(c *gin.Context) {
	var req dto.RenewBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid renewal payload"))
		return
	}
	result, err := h.service.RenewBlock(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
