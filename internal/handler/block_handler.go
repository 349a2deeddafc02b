package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/dto"
	"github.com/noah-isme/tuition-portal-api/internal/models"
	"github.com/noah-isme/tuition-portal-api/pkg/response"
)

type blockService interface {
	PaymentBlocks(ctx context.Context) ([]models.PaymentBlock, error)
	GenerateBlock(ctx context.Context, claims *models.JWTClaims, req dto.GenerateBlockRequest, meta models.RequestMeta) (*dto.BlockRunResult, error)
	VerifyBlock(ctx context.Context, claims *models.JWTClaims, req dto.VerifyBlockRequest, meta models.RequestMeta) (*dto.BlockRunResult, error)
	AssignClassroom(ctx context.Context, claims *models.JWTClaims, req dto.AssignClassroomRequest, meta models.RequestMeta) (*dto.AssignClassroomResult, error)
	ListRuns(ctx context.Context, query dto.ListBlockRunsQuery) ([]models.BlockRun, *models.Pagination, error)
	GetRun(ctx context.Context, id string) (*models.BlockRun, error)
}

// BlockHandler exposes the admin block workflows.
type BlockHandler struct {
	service blockService
}

// NewBlockHandler constructs a BlockHandler.
func NewBlockHandler(service blockService) *BlockHandler {
	return &BlockHandler{service: service}
}

// PaymentBlocks godoc
// @Summary Enrollments grouped into four session payment blocks
// @Tags Blocks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/blocks/payments [get]
func (h *BlockHandler) PaymentBlocks(c *gin.Context) {
	blocks, err := h.service.PaymentBlocks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// Generate godoc
// @Summary Create a slot's block and apply its classroom link
// @Description Responds 207 when the block was created but the link step failed.
// @Tags Blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GenerateBlockRequest true "Block payload"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Router /admin/blocks/generate [post]
func (h *BlockHandler) Generate(c *gin.Context) {
	var req dto.GenerateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid block payload"))
		return
	}
	result, err := h.service.GenerateBlock(c.Request.Context(), claimsFromContext(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, runStatusCode(result), result, nil)
}

// Verify godoc
// @Summary Verify a student's block payment and apply its classroom link
// @Tags Blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.VerifyBlockRequest true "Verification payload"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Router /admin/blocks/verify [post]
func (h *BlockHandler) Verify(c *gin.Context) {
	var req dto.VerifyBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid verification payload"))
		return
	}
	result, err := h.service.VerifyBlock(c.Request.Context(), claimsFromContext(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, runStatusCode(result), result, nil)
}

// AssignClassroom godoc
// @Summary Bulk assign a classroom link across a block
// @Tags Blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AssignClassroomRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /admin/blocks/classroom [post]
func (h *BlockHandler) AssignClassroom(c *gin.Context) {
	var req dto.AssignClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid assignment payload"))
		return
	}
	result, err := h.service.AssignClassroom(c.Request.Context(), claimsFromContext(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListRuns godoc
// @Summary List block runs
// @Tags Blocks
// @Produce json
// @Security BearerAuth
// @Param slot_id query string false "Slot ID"
// @Param status query string false "Run status"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/blocks/runs [get]
func (h *BlockHandler) ListRuns(c *gin.Context) {
	var query dto.ListBlockRunsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	runs, pagination, err := h.service.ListRuns(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, pagination)
}

// GetRun godoc
// @Summary Get a block run
// @Tags Blocks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /admin/blocks/runs/{id} [get]
func (h *BlockHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

func runStatusCode(result *dto.BlockRunResult) int {
	if result != nil && result.Status == string(models.BlockRunPartiallyApplied) {
		return http.StatusMultiStatus
	}
	return http.StatusOK
}
