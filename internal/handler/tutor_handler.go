package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type tutorService interface {
	CreateTutor(ctx context.Context, claims *models.JWTClaims, req dto.CreateTutorRequest, meta models.RequestMeta) (*models.CreatedTutor, error)
	ListDirectory(ctx context.Context) ([]models.TutorDirectoryEntry, error)
	CreateDirectoryEntry(ctx context.Context, req dto.TutorDirectoryRequest) (*models.TutorDirectoryEntry, error)
	UpdateDirectoryEntry(ctx context.Context, id string, req dto.TutorDirectoryRequest) (*models.TutorDirectoryEntry, error)
	DeleteDirectoryEntry(ctx context.Context, id string) error
	SubmitApplication(ctx context.Context, req dto.TutorApplicationRequest) (*models.TutorApplication, error)
	ListApplications(ctx context.Context, status string) ([]models.TutorApplication, error)
	UpdateApplicationStatus(ctx context.Context, id string, req dto.ApplicationStatusRequest) error
}

// TutorHandler provisions tutors and manages the directory and applications.
type TutorHandler struct {
	service tutorService
}

// NewTutorHandler constructs a TutorHandler.
func NewTutorHandler(service tutorService) *TutorHandler {
	return &TutorHandler{service: service}
}

// Create godoc
// @Summary Invite a tutor and create their account
// @Tags Tutors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTutorRequest true "Tutor payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/tutors [post]
func (h *TutorHandler) Create(c *gin.Context) {
	var req dto.CreateTutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "Full name and email are required"))
		return
	}
	created, err := h.service.CreateTutor(c.Request.Context(), claimsFromContext(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// ListDirectory godoc
// @Summary Tutors directory
// @Tags Tutors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/tutors/directory [get]
func (h *TutorHandler) ListDirectory(c *gin.Context) {
	entries, err := h.service.ListDirectory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// CreateDirectoryEntry godoc
// @Summary Add a directory entry
// @Tags Tutors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TutorDirectoryRequest true "Directory payload"
// @Success 201 {object} response.Envelope
// @Router /admin/tutors/directory [post]
func (h *TutorHandler) CreateDirectoryEntry(c *gin.Context) {
	var req dto.TutorDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid directory payload"))
		return
	}
	entry, err := h.service.CreateDirectoryEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// UpdateDirectoryEntry godoc
// @Summary Replace a directory entry
// @Tags Tutors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param payload body dto.TutorDirectoryRequest true "Directory payload"
// @Success 200 {object} response.Envelope
// @Router /admin/tutors/directory/{id} [put]
func (h *TutorHandler) UpdateDirectoryEntry(c *gin.Context) {
	var req dto.TutorDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid directory payload"))
		return
	}
	entry, err := h.service.UpdateDirectoryEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// DeleteDirectoryEntry godoc
// @Summary Remove a directory entry
// @Tags Tutors
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Router /admin/tutors/directory/{id} [delete]
func (h *TutorHandler) DeleteDirectoryEntry(c *gin.Context) {
	if err := h.service.DeleteDirectoryEntry(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SubmitApplication godoc
// @Summary Apply to teach
// @Tags Tutors
// @Accept json
// @Produce json
// @Param payload body dto.TutorApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Router /tutor-applications [post]
func (h *TutorHandler) SubmitApplication(c *gin.Context) {
	var req dto.TutorApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid application payload"))
		return
	}
	app, err := h.service.SubmitApplication(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// ListApplications godoc
// @Summary List tutor applications
// @Tags Tutors
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /admin/tutor-applications [get]
func (h *TutorHandler) ListApplications(c *gin.Context) {
	apps, err := h.service.ListApplications(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// UpdateApplicationStatus godoc
// @Summary Move an application through review
// @Tags Tutors
// @Accept json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body dto.ApplicationStatusRequest true "Status payload"
// @Success 204
// @Router /admin/tutor-applications/{id}/status [patch]
func (h *TutorHandler) UpdateApplicationStatus(c *gin.Context) {
	var req dto.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status payload"))
		return
	}
	if err := h.service.UpdateApplicationStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
