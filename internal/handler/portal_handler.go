package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type portalService interface {
	Sessions(ctx context.Context, claims *models.JWTClaims) (*dto.PortalSessions, error)
	Join(ctx context.Context, claims *models.JWTClaims, instanceID string) (*dto.JoinResponse, error)
}

type calendarService interface {
	Feed(ctx context.Context, claims *models.JWTClaims) (string, error)
}

// PortalHandler serves the dashboard session list, join links and the calendar feed.
type PortalHandler struct {
	portal   portalService
	calendar calendarService
}

// NewPortalHandler constructs a PortalHandler.
func NewPortalHandler(portal portalService, calendar calendarService) *PortalHandler {
	return &PortalHandler{portal: portal, calendar: calendar}
}

// Sessions godoc
// @Summary Sessions visible to the caller with their join state
// @Tags Portal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /portal/sessions [get]
func (h *PortalHandler) Sessions(c *gin.Context) {
	result, err := h.portal.Sessions(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Join godoc
// @Summary Live classroom link for a session
// @Description Returns the link only while the join window is open and the enrollment is paid.
// @Tags Portal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /portal/sessions/{id}/join [get]
func (h *PortalHandler) Join(c *gin.Context) {
	result, err := h.portal.Join(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Calendar godoc
// @Summary iCalendar feed of the caller's dated sessions
// @Tags Portal
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string
// @Router /portal/calendar.ics [get]
func (h *PortalHandler) Calendar(c *gin.Context) {
	feed, err := h.calendar.Feed(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Disposition", `inline; filename="sessions.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
