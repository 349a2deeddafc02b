package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type meService interface {
	Me(ctx context.Context, claims *models.JWTClaims) (*models.Profile, error)
}

// AuthHandler serves the caller's own profile.
type AuthHandler struct {
	service meService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc meService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Me godoc
// @Summary Current user profile
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
