package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/middleware"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type slotService interface {
	List(ctx context.Context, query dto.ListSlotsQuery) ([]models.RecurringSlot, error)
	Catalog(ctx context.Context, packageID string) ([]models.RecurringSlot, bool, error)
	Get(ctx context.Context, id string) (*models.RecurringSlot, error)
	Create(ctx context.Context, req dto.SlotRequest, actorID string, meta models.RequestMeta) (*models.RecurringSlot, error)
	Update(ctx context.Context, id string, req dto.SlotRequest, actorID string, meta models.RequestMeta) (*models.RecurringSlot, error)
	Delete(ctx context.Context, id string, confirmed bool, actorID string, meta models.RequestMeta) error
}

// SlotHandler serves the package catalog and recurring slot administration.
type SlotHandler struct {
	service slotService
}

// NewSlotHandler constructs a SlotHandler.
func NewSlotHandler(service slotService) *SlotHandler {
	return &SlotHandler{service: service}
}

// Packages godoc
// @Summary Tuition package catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/packages [get]
func (h *SlotHandler) Packages(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.Catalog, nil)
}

// Catalog godoc
// @Summary Bookable slots, optionally for one package
// @Tags Catalog
// @Produce json
// @Param package_id query string false "Package ID"
// @Success 200 {object} response.Envelope
// @Router /catalog/slots [get]
func (h *SlotHandler) Catalog(c *gin.Context) {
	slots, hit, err := h.service.Catalog(c.Request.Context(), c.Query("package_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, slots, nil)
}

// List godoc
// @Summary List recurring slots
// @Tags Slots
// @Produce json
// @Security BearerAuth
// @Param package_id query string false "Package ID"
// @Success 200 {object} response.Envelope
// @Router /admin/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	var query dto.ListSlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	slots, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Get godoc
// @Summary Get a recurring slot
// @Tags Slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /admin/slots/{id} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	slot, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Create godoc
// @Summary Create a recurring slot
// @Tags Slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /admin/slots [post]
func (h *SlotHandler) Create(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid slot payload"))
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update a recurring slot
// @Tags Slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param payload body dto.SlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /admin/slots/{id} [put]
func (h *SlotHandler) Update(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid slot payload"))
		return
	}
	slot, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete a recurring slot
// @Description Requires confirm=true, otherwise responds 428.
// @Tags Slots
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param confirm query bool true "Confirm deletion"
// @Success 204
// @Failure 428 {object} response.Envelope
// @Router /admin/slots/{id} [delete]
func (h *SlotHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), queryBool(c, "confirm"), actorID(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
