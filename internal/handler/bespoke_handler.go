package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type bespokeService interface {
	ListOffers(ctx context.Context) ([]models.BespokeOffer, error)
	CreateOffer(ctx context.Context, claims *models.JWTClaims, req dto.BespokeOfferRequest) (*models.BespokeOffer, error)
	UpdateOfferStatus(ctx context.Context, id string, req dto.BespokeOfferStatusRequest) error
	OfferByToken(ctx context.Context, token string) (*dto.BespokeOfferView, error)
	SubmitEnquiry(ctx context.Context, req dto.EnquiryRequest) (*models.BespokeEnquiry, error)
	ListEnquiries(ctx context.Context) ([]models.BespokeEnquiry, error)
	UpdateEnquiryStatus(ctx context.Context, id string, req dto.EnquiryStatusRequest) error
}

// BespokeHandler serves private offers and enquiries.
type BespokeHandler struct {
	service bespokeService
}

// NewBespokeHandler constructs a BespokeHandler.
func NewBespokeHandler(service bespokeService) *BespokeHandler {
	return &BespokeHandler{service: service}
}

// ListOffers godoc
// @Summary List bespoke offers
// @Tags Bespoke
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/bespoke/offers [get]
func (h *BespokeHandler) ListOffers(c *gin.Context) {
	offers, err := h.service.ListOffers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offers, nil)
}

// CreateOffer godoc
// @Summary Create a bespoke offer
// @Tags Bespoke
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.BespokeOfferRequest true "Offer payload"
// @Success 201 {object} response.Envelope
// @Router /admin/bespoke/offers [post]
func (h *BespokeHandler) CreateOffer(c *gin.Context) {
	var req dto.BespokeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid offer payload"))
		return
	}
	offer, err := h.service.CreateOffer(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offer)
}

// UpdateOfferStatus godoc
// @Summary Change the status of an offer
// @Tags Bespoke
// @Accept json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param payload body dto.BespokeOfferStatusRequest true "Status payload"
// @Success 204
// @Router /admin/bespoke/offers/{id}/status [patch]
func (h *BespokeHandler) UpdateOfferStatus(c *gin.Context) {
	var req dto.BespokeOfferStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status payload"))
		return
	}
	if err := h.service.UpdateOfferStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// OfferByToken godoc
// @Summary Public view of an offer link
// @Tags Bespoke
// @Produce json
// @Param token path string true "Offer token"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bespoke/{token} [get]
func (h *BespokeHandler) OfferByToken(c *gin.Context) {
	view, err := h.service.OfferByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// SubmitEnquiry godoc
// @Summary Ask for a bespoke arrangement
// @Tags Bespoke
// @Accept json
// @Produce json
// @Param payload body dto.EnquiryRequest true "Enquiry payload"
// @Success 201 {object} response.Envelope
// @Router /enquiries [post]
func (h *BespokeHandler) SubmitEnquiry(c *gin.Context) {
	var req dto.EnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid enquiry payload"))
		return
	}
	enquiry, err := h.service.SubmitEnquiry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enquiry)
}

// ListEnquiries godoc
// @Summary List enquiries
// @Tags Bespoke
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/enquiries [get]
func (h *BespokeHandler) ListEnquiries(c *gin.Context) {
	items, err := h.service.ListEnquiries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// UpdateEnquiryStatus godoc
// @Summary Change the status of an enquiry
// @Tags Bespoke
// @Accept json
// @Security BearerAuth
// @Param id path string true "Enquiry ID"
// @Param payload body dto.EnquiryStatusRequest true "Status payload"
// @Success 204
// @Router /admin/enquiries/{id}/status [patch]
func (h *BespokeHandler) UpdateEnquiryStatus(c *gin.Context) {
	var req dto.EnquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status payload"))
		return
	}
	if err := h.service.UpdateEnquiryStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
