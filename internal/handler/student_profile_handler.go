package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type studentProfileService interface {
	Get(ctx context.Context, claims *models.JWTClaims) (*models.StudentProfile, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.StudentProfileRequest) (*models.StudentProfile, error)
}

// StudentProfileHandler serves the academic onboarding profile.
type StudentProfileHandler struct {
	service studentProfileService
}

// NewStudentProfileHandler constructs a StudentProfileHandler.
func NewStudentProfileHandler(service studentProfileService) *StudentProfileHandler {
	return &StudentProfileHandler{service: service}
}

// Get godoc
// @Summary Academic profile of the caller or their linked student
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-profile [get]
func (h *StudentProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Create godoc
// @Summary Complete onboarding
// @Tags Onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.StudentProfileRequest true "Profile payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student-profile [post]
func (h *StudentProfileHandler) Create(c *gin.Context) {
	var req dto.StudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid profile payload"))
		return
	}
	profile, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, profile)
}
