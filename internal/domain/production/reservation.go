package production

import (
	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Reservation earmarks a quantity of a component item against future
// consumption on one order line. It exists only while material has not
// yet been consumed for that component: consumption deletes it,
// reversal recreates it. Reservations are a bookkeeping signal, not a
// hard allocation lock; they never alter the movement ledger.
type Reservation struct {
	shared.BaseEntity
	OrderLineID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reservations_line_item,priority:1"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reservations_line_item,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;check:chk_reservations_quantity,quantity > 0"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates a new reservation
func NewReservation(orderLineID, itemID uuid.UUID, quantity decimal.Decimal) (*Reservation, error) {
	if orderLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_LINE", "Order line ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}

	return &Reservation{
		BaseEntity:  shared.NewBaseEntity(),
		OrderLineID: orderLineID,
		ItemID:      itemID,
		Quantity:    quantity,
	}, nil
}
