package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// ReceiveStockRequest books stock into a location
type ReceiveStockRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	BatchID    *uuid.UUID      `json:"batch_id,omitempty"`
	Person     string          `json:"person,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	PONumber   string          `json:"po_number,omitempty"`
}

// AdjustStockRequest corrects an item's on-hand quantity by a signed
// delta
type AdjustStockRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Delta      decimal.Decimal `json:"delta" binding:"required"`
	Person     string          `json:"person,omitempty"`
	Reference  string          `json:"reference,omitempty"`
}

// RecordCountRequest records a cycle-count result for an item at a
// location. The counted quantity replaces the location's on-hand via a
// COUNT_GAIN or COUNT_LOSS movement for the difference.
type RecordCountRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Counted    decimal.Decimal `json:"counted"`
	Person     string          `json:"person,omitempty"`
}

// MovementResponse represents a movement in responses
type MovementResponse struct {
	ID         uuid.UUID  `json:"id"`
	ItemID     uuid.UUID  `json:"item_id"`
	LocationID uuid.UUID  `json:"location_id"`
	BatchID    *uuid.UUID `json:"batch_id,omitempty"`
	Quantity   string     `json:"quantity"`
	Type       string     `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	Person     string     `json:"person,omitempty"`
	Reference  string     `json:"reference,omitempty"`
	PONumber   string     `json:"po_number,omitempty"`
}

// OnHandResponse reports an item's stock position: the signed ledger
// sum, the total still reserved for production orders, and the
// difference available for new work.
type OnHandResponse struct {
	ItemID    uuid.UUID `json:"item_id"`
	OnHand    string    `json:"on_hand"`
	Reserved  string    `json:"reserved"`
	Available string    `json:"available"`
}

// ToMovementResponse converts a Movement to a MovementResponse
func ToMovementResponse(movement *stock.Movement) MovementResponse {
	return MovementResponse{
		ID:         movement.ID,
		ItemID:     movement.ItemID,
		LocationID: movement.LocationID,
		BatchID:    movement.BatchID,
		Quantity:   movement.Quantity.String(),
		Type:       movement.Type.String(),
		OccurredAt: movement.OccurredAt,
		Person:     movement.Person,
		Reference:  movement.Reference,
		PONumber:   movement.PONumber,
	}
}
