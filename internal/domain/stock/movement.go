package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeReceipt represents stock received into a location
	MovementTypeReceipt MovementType = "RECEIPT"
	// MovementTypeIssue represents stock issued out (consumption, shipment)
	MovementTypeIssue MovementType = "ISSUE"
	// MovementTypeMove represents a relocation between locations
	MovementTypeMove MovementType = "MOVE"
	// MovementTypeAdjust represents a manual quantity correction
	MovementTypeAdjust MovementType = "ADJUST"
	// MovementTypeCountGain represents a positive cycle-count correction
	MovementTypeCountGain MovementType = "COUNT_GAIN"
	// MovementTypeCountLoss represents a negative cycle-count correction
	MovementTypeCountLoss MovementType = "COUNT_LOSS"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt,
		MovementTypeIssue,
		MovementTypeMove,
		MovementTypeAdjust,
		MovementTypeCountGain,
		MovementTypeCountLoss:
		return true
	}
	return false
}

// Movement represents a single signed quantity change for one item at
// one location, optionally tied to a batch. The on-hand quantity of an
// item is the sum of the signed quantities of all its movements.
//
// Movements are immutable once created. The only permitted deletion is
// the reversal of a routing-step consumption, which removes the ISSUE
// movement as if it had never happened; movements are never updated in
// place.
type Movement struct {
	shared.BaseEntity
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_item"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_location"`
	BatchID    *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed: receipts positive, issues negative
	Type       MovementType    `gorm:"column:movement_type;type:varchar(20);not null;index:idx_movements_type"`
	OccurredAt time.Time       `gorm:"type:timestamptz;not null;index:idx_movements_occurred"`
	Person     string          `gorm:"type:varchar(100)"` // Who performed/recorded the movement
	Reference  string          `gorm:"type:varchar(200)"` // Free-text reference
	PONumber   string          `gorm:"column:po_number;type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a new stock movement with a signed quantity
func NewMovement(itemID, locationID uuid.UUID, quantity decimal.Decimal, movementType MovementType) (*Movement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}

	return &Movement{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   quantity,
		Type:       movementType,
		OccurredAt: time.Now(),
	}, nil
}

// NewReceipt creates a positive RECEIPT movement
func NewReceipt(itemID, locationID uuid.UUID, quantity decimal.Decimal) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	return NewMovement(itemID, locationID, quantity, MovementTypeReceipt)
}

// NewIssue creates a negative ISSUE movement for the given (positive)
// quantity. Issues decrease on-hand.
func NewIssue(itemID, locationID uuid.UUID, quantity decimal.Decimal) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Issue quantity must be positive")
	}
	return NewMovement(itemID, locationID, quantity.Neg(), MovementTypeIssue)
}

// NewAdjustment creates an ADJUST movement with the given signed delta
func NewAdjustment(itemID, locationID uuid.UUID, delta decimal.Decimal) (*Movement, error) {
	return NewMovement(itemID, locationID, delta, MovementTypeAdjust)
}

// WithBatch ties the movement to a batch
func (m *Movement) WithBatch(batchID uuid.UUID) *Movement {
	m.BatchID = &batchID
	return m
}

// WithPerson records who performed the movement
func (m *Movement) WithPerson(person string) *Movement {
	m.Person = person
	return m
}

// WithReference sets the free-text reference
func (m *Movement) WithReference(reference string) *Movement {
	m.Reference = reference
	return m
}

// WithPONumber sets the purchase order reference
func (m *Movement) WithPONumber(poNumber string) *Movement {
	m.PONumber = poNumber
	return m
}

// WithOccurredAt overrides the movement timestamp
func (m *Movement) WithOccurredAt(t time.Time) *Movement {
	m.OccurredAt = t
	return m
}

// IsInbound returns true if the movement increases on-hand
func (m *Movement) IsInbound() bool {
	return m.Quantity.GreaterThan(decimal.Zero)
}

// IsOutbound returns true if the movement decreases on-hand
func (m *Movement) IsOutbound() bool {
	return m.Quantity.LessThan(decimal.Zero)
}
