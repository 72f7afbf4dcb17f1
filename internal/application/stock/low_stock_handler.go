package stock

import (
	"context"

	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// LowStockAlertHandler reacts to below-minimum events by logging a
// warning. Replenishment workflows subscribe the same way.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{stock.EventTypeStockBelowMinimum}
}

// Handle processes a StockBelowMinimumEvent
func (h *LowStockAlertHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*stock.StockBelowMinimumEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("item below minimum stock",
		zap.String("sku", alert.SKU),
		zap.String("item_id", alert.ItemID.String()),
		zap.String("on_hand", alert.OnHand.String()),
		zap.String("min_stock", alert.MinStock.String()),
	)
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
