package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	productionapp "github.com/mfgops/backend/internal/application/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/interfaces/http/dto"
)

// OrderHandler exposes production order creation, retrieval and
// routing completion endpoints.
type OrderHandler struct {
	BaseHandler
	orderService   *productionapp.OrderService
	routingService *productionapp.RoutingService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *productionapp.OrderService, routingService *productionapp.RoutingService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		routingService: routingService,
	}
}

// RegisterRoutes registers the production order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/production/orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.GET("/number/:number", h.GetByOrderNumber)
	orders.PUT("/:id/routing", h.UpdateCompletion)
}

// OrderListRequest holds the production order list query parameters
type OrderListRequest struct {
	dto.ListRequest
	Status   string `form:"status"`
	Customer string `form:"customer"`
}

// Create creates a production order with its BOM and routing plan.
// Validation failures return the full accumulated message list.
func (h *OrderHandler) Create(c *gin.Context) {
	var req productionapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves an order with its full graph
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderNumber retrieves an order by its order number
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves a paginated list of production orders
func (h *OrderHandler) List(c *gin.Context) {
	var req OrderListRequest
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
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.Customer != "" {
		filter.Filters["customer"] = req.Customer
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, req.Page, req.PageSize)
}

// UpdateCompletion submits the complete desired set of completed
// routing steps for an order. Steps missing from the set are reverted.
func (h *OrderHandler) UpdateCompletion(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req productionapp.UpdateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.routingService.UpdateCompletion(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
