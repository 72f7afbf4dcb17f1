package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/mfgops/backend/internal/application/stock"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/interfaces/http/dto"
)

// StockHandler exposes stock movement recording and on-hand queries.
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes registers the stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	stock.POST("/receipts", h.Receive)
	stock.POST("/adjustments", h.Adjust)
	stock.POST("/counts", h.RecordCount)
	stock.GET("/items/:id/on-hand", h.OnHand)
	stock.GET("/items/:id/movements", h.Movements)
}

// MovementListRequest holds the movement list query parameters
type MovementListRequest struct {
	dto.ListRequest
	LocationID   string `form:"location_id"`
	MovementType string `form:"movement_type"`
}

// Receive records an inbound receipt movement
func (h *StockHandler) Receive(c *gin.Context) {
	var req stockapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockService.Receive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// Adjust records a signed manual correction movement
func (h *StockHandler) Adjust(c *gin.Context) {
	var req stockapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockService.Adjust(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// RecordCount reconciles a physical count against the current
// location balance. When the count matches, no movement is written
// and the response data is empty.
func (h *StockHandler) RecordCount(c *gin.Context) {
	var req stockapp.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockService.RecordCount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if movement == nil {
		h.Success(c, gin.H{"changed": false})
		return
	}

	h.Created(c, movement)
}

// OnHand returns the current on-hand quantity for an item. With the
// location query parameter set, the balance is scoped to that location.
func (h *StockHandler) OnHand(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if loc := c.Query("location"); loc != "" {
		locationID, err := uuid.Parse(loc)
		if err != nil {
			h.BadRequest(c, "Invalid location ID format")
			return
		}
		quantity, err := h.stockService.OnHandAtLocation(c.Request.Context(), itemID, locationID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, gin.H{"item_id": itemID, "location_id": locationID, "on_hand": quantity})
		return
	}

	onHand, err := h.stockService.OnHand(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, onHand)
}

// Movements returns the paginated movement history for an item
func (h *StockHandler) Movements(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req MovementListRequest
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
	if req.LocationID != "" {
		filter.Filters["location_id"] = req.LocationID
	}
	if req.MovementType != "" {
		filter.Filters["movement_type"] = req.MovementType
	}

	movements, total, err := h.stockService.Movements(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, req.Page, req.PageSize)
}
