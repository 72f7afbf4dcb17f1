package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/mfgops/backend/internal/application/catalog"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/interfaces/http/dto"
)

// BatchHandler exposes batch tracking endpoints.
type BatchHandler struct {
	BaseHandler
	batchService *catalogapp.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *catalogapp.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// RegisterRoutes registers the batch routes
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	batches.POST("", h.Create)
	batches.GET("", h.List)
	batches.GET("/:id", h.GetByID)
	batches.DELETE("/:id", h.Delete)
}

// BatchListRequest holds the batch list query parameters
type BatchListRequest struct {
	dto.ListRequest
	ItemID string `form:"item_id"`
}

// Create creates a new batch
func (h *BatchHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// GetByID retrieves a batch by ID
func (h *BatchHandler) GetByID(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// List retrieves batches, optionally filtered by item
func (h *BatchHandler) List(c *gin.Context) {
	var req BatchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if req.ItemID != "" {
		filter.Filters["item_id"] = req.ItemID
	}

	batches, err := h.batchService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// Delete deletes a batch
func (h *BatchHandler) Delete(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), batchID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
