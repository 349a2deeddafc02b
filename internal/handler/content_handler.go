package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type announcementService interface {
	List(ctx context.Context) ([]models.Announcement, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.AnnouncementRequest) (*models.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type settingsService interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Update(ctx context.Context, req dto.SettingsRequest, actorID string, meta models.RequestMeta) (*models.PlatformSettings, error)
}

// ContentHandler serves announcements and platform branding.
type ContentHandler struct {
	announcements announcementService
	settings      settingsService
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(announcements announcementService, settings settingsService) *ContentHandler {
	return &ContentHandler{announcements: announcements, settings: settings}
}

// ListAnnouncements godoc
// @Summary Dashboard announcements
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *ContentHandler) ListAnnouncements(c *gin.Context) {
	items, err := h.announcements.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateAnnouncement godoc
// @Summary Publish an announcement
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Router /admin/announcements [post]
func (h *ContentHandler) CreateAnnouncement(c *gin.Context) {
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid announcement payload"))
		return
	}
	item, err := h.announcements.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// DeleteAnnouncement godoc
// @Summary Remove an announcement
// @Tags Content
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 204
// @Router /admin/announcements/{id} [delete]
func (h *ContentHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Settings godoc
// @Summary Platform branding
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *ContentHandler) Settings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// UpdateSettings godoc
// @Summary Update platform branding
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /admin/settings [put]
func (h *ContentHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid settings payload"))
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
