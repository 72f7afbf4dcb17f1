package stock

import (
	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the stock ledger
const (
	EventTypeStockIssued       = "stock.issued"
	EventTypeStockReceived     = "stock.received"
	EventTypeStockBelowMinimum = "stock.below_minimum"
)

// StockIssuedEvent is emitted when an ISSUE movement is appended
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"` // Positive issued amount
	Reference  string          `json:"reference"`
}

// NewStockIssuedEvent creates a new StockIssuedEvent
func NewStockIssuedEvent(movement *Movement) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, "Movement", movement.ID),
		ItemID:          movement.ItemID,
		LocationID:      movement.LocationID,
		Quantity:        movement.Quantity.Neg(),
		Reference:       movement.Reference,
	}
}

// StockReceivedEvent is emitted when a RECEIPT movement is appended
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(movement *Movement) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, "Movement", movement.ID),
		ItemID:          movement.ItemID,
		LocationID:      movement.LocationID,
		Quantity:        movement.Quantity,
	}
}

// StockBelowMinimumEvent is emitted when an item's on-hand quantity
// drops below its configured minimum stock level
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID       `json:"item_id"`
	SKU      string          `json:"sku"`
	OnHand   decimal.Decimal `json:"on_hand"`
	MinStock decimal.Decimal `json:"min_stock"`
}

// NewStockBelowMinimumEvent creates a new StockBelowMinimumEvent
func NewStockBelowMinimumEvent(itemID uuid.UUID, sku string, onHand, minStock decimal.Decimal) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, "Item", itemID),
		ItemID:          itemID,
		SKU:             sku,
		OnHand:          onHand,
		MinStock:        minStock,
	}
}
