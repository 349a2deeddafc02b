package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type sessionNoteService interface {
	List(ctx context.Context, claims *models.JWTClaims, instanceIDs []string) ([]models.SessionNote, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.SessionNoteRequest) (*models.SessionNote, error)
}

type attendanceService interface {
	Roster(ctx context.Context, claims *models.JWTClaims, instanceID string) ([]models.RosterLine, error)
	Save(ctx context.Context, claims *models.JWTClaims, instanceID string, req dto.SaveAttendanceRequest) ([]models.RosterLine, error)
}

// SessionHandler serves session notes and registers.
type SessionHandler struct {
	notes      sessionNoteService
	attendance attendanceService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(notes sessionNoteService, attendance attendanceService) *SessionHandler {
	return &SessionHandler{notes: notes, attendance: attendance}
}

// ListNotes godoc
// @Summary List session notes
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param instance_ids query string false "Comma separated instance IDs"
// @Success 200 {object} response.Envelope
// @Router /session-notes [get]
func (h *SessionHandler) ListNotes(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), claimsFromContext(c), splitQueryList(c.QueryArray("instance_ids")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// CreateNote godoc
// @Summary Record a session note
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SessionNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Router /session-notes [post]
func (h *SessionHandler) CreateNote(c *gin.Context) {
	var req dto.SessionNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid session note payload"))
		return
	}
	note, err := h.notes.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// Roster godoc
// @Summary Register of a session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 200 {object} response.Envelope
// @Router /instances/{id}/attendance [get]
func (h *SessionHandler) Roster(c *gin.Context) {
	lines, err := h.attendance.Roster(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lines, nil)
}

// SaveAttendance godoc
// @Summary Submit the register of a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Param payload body dto.SaveAttendanceRequest true "Register payload"
// @Success 200 {object} response.Envelope
// @Router /instances/{id}/attendance [put]
func (h *SessionHandler) SaveAttendance(c *gin.Context) {
	var req dto.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid register payload"))
		return
	}
	lines, err := h.attendance.Save(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lines, nil)
}

// splitQueryList accepts both repeated keys and comma separated values.
func splitQueryList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
