package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type instanceService interface {
	List(ctx context.Context, claims *models.JWTClaims, query dto.ListInstancesQuery) ([]models.GroupInstance, error)
	Get(ctx context.Context, id string) (*models.GroupInstance, error)
	Create(ctx context.Context, req dto.InstanceRequest) (*models.GroupInstance, error)
	Update(ctx context.Context, id string, req dto.InstanceRequest) (*models.GroupInstance, error)
	Delete(ctx context.Context, id, actorID string, meta models.RequestMeta) error
	SetBookingEnabled(ctx context.Context, id string, enabled bool) error
	UpdateClassroom(ctx context.Context, claims *models.JWTClaims, id string, req dto.ClassroomRequest) (*models.GroupInstance, error)
}

type bookingToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// InstanceHandler manages dated group instances.
type InstanceHandler struct {
	service instanceService
}

// NewInstanceHandler constructs an InstanceHandler.
func NewInstanceHandler(service instanceService) *InstanceHandler {
	return &InstanceHandler{service: service}
}

// List godoc
// @Summary List sessions visible to the caller
// @Tags Instances
// @Produce json
// @Security BearerAuth
// @Param slot_id query string false "Slot ID"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /instances [get]
func (h *InstanceHandler) List(c *gin.Context) {
	var query dto.ListInstancesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a session
// @Tags Instances
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 200 {object} response.Envelope
// @Router /admin/instances/{id} [get]
func (h *InstanceHandler) Get(c *gin.Context) {
	inst, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inst, nil)
}

// Create godoc
// @Summary Create a session
// @Tags Instances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.InstanceRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /admin/instances [post]
func (h *InstanceHandler) Create(c *gin.Context) {
	var req dto.InstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid session payload"))
		return
	}
	inst, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inst)
}

// Update godoc
// @Summary Update a session
// @Tags Instances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Param payload body dto.InstanceRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /admin/instances/{id} [put]
func (h *InstanceHandler) Update(c *gin.Context) {
	var req dto.InstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid session payload"))
		return
	}
	inst, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inst, nil)
}

// Delete godoc
// @Summary Delete a session
// @Tags Instances
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 204
// @Router /admin/instances/{id} [delete]
func (h *InstanceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetBooking godoc
// @Summary Open or close booking for a session
// @Tags Instances
// @Accept json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Param payload body bookingToggleRequest true "Toggle payload"
// @Success 204
// @Router /admin/instances/{id}/booking [patch]
func (h *InstanceHandler) SetBooking(c *gin.Context) {
	var req bookingToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "enabled is required"))
		return
	}
	if err := h.service.SetBookingEnabled(c.Request.Context(), c.Param("id"), *req.Enabled); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateClassroom godoc
// @Summary Set the live classroom of a session
// @Tags Instances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Param payload body dto.ClassroomRequest true "Classroom payload"
// @Success 200 {object} response.Envelope
// @Router /instances/{id}/classroom [patch]
func (h *InstanceHandler) UpdateClassroom(c *gin.Context) {
	var req dto.ClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid classroom payload"))
		return
	}
	inst, err := h.service.UpdateClassroom(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inst, nil)
}
