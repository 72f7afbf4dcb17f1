package production

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RoutingStep is one stage of the production process for an order.
// Steps are created with the order and immutable in shape; only the
// completed flag and timestamp change afterwards.
type RoutingStep struct {
	shared.BaseEntity
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_routing_steps_order_sequence,priority:1"`
	Sequence     int        `gorm:"not null;uniqueIndex:idx_routing_steps_order_sequence,priority:2"`
	WorkCell     string     `gorm:"type:varchar(100)"`
	Instructions string     `gorm:"type:text;not null"`
	Completed    bool       `gorm:"not null;default:false"`
	CompletedAt  *time.Time `gorm:"type:timestamptz"`

	Usages []RoutingStepComponent `gorm:"foreignKey:RoutingStepID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RoutingStep) TableName() string {
	return "routing_steps"
}

// NewRoutingStep creates a new routing step
func NewRoutingStep(orderID uuid.UUID, sequence int, workCell, instructions string) (*RoutingStep, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, shared.NewDomainError("INVALID_INSTRUCTIONS", "Step instructions cannot be empty")
	}

	return &RoutingStep{
		BaseEntity:   shared.NewBaseEntity(),
		OrderID:      orderID,
		Sequence:     sequence,
		WorkCell:     workCell,
		Instructions: instructions,
		Usages:       make([]RoutingStepComponent, 0),
	}, nil
}

// AddUsage records that this step is where the given BOM component is
// consumed. A component may be used at most once per step.
func (s *RoutingStep) AddUsage(component *OrderComponent) (*RoutingStepComponent, error) {
	for _, usage := range s.Usages {
		if usage.OrderComponentID == component.ID {
			return nil, shared.NewDomainError("DUPLICATE_USAGE", "Component already referenced by this step")
		}
	}

	usage := NewRoutingStepComponent(s.ID, component)
	s.Usages = append(s.Usages, *usage)
	s.UpdatedAt = time.Now()

	return &s.Usages[len(s.Usages)-1], nil
}

// UsageByID returns the usage with the given ID, or nil
func (s *RoutingStep) UsageByID(usageID uuid.UUID) *RoutingStepComponent {
	for idx := range s.Usages {
		if s.Usages[idx].ID == usageID {
			return &s.Usages[idx]
		}
	}
	return nil
}

// MarkCompleted sets the completed flag and timestamp
func (s *RoutingStep) MarkCompleted(at time.Time) {
	s.Completed = true
	s.CompletedAt = &at
	s.UpdatedAt = at
}

// MarkNotCompleted clears the completed flag and timestamp
func (s *RoutingStep) MarkNotCompleted() {
	s.Completed = false
	s.CompletedAt = nil
	s.UpdatedAt = time.Now()
}

// RoutingStepComponent links a routing step to one of its order's BOM
// components, recording that the step is where that component is
// consumed. Referred to as a "usage".
type RoutingStepComponent struct {
	shared.BaseEntity
	RoutingStepID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_routing_step_components,priority:1"`
	OrderComponentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_routing_step_components,priority:2"`

	Component    OrderComponent           `gorm:"foreignKey:OrderComponentID;references:ID"`
	Consumptions []RoutingStepConsumption `gorm:"foreignKey:RoutingStepComponentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RoutingStepComponent) TableName() string {
	return "routing_step_components"
}

// NewRoutingStepComponent creates a new usage linking a step to a
// BOM component
func NewRoutingStepComponent(stepID uuid.UUID, component *OrderComponent) *RoutingStepComponent {
	return &RoutingStepComponent{
		BaseEntity:       shared.NewBaseEntity(),
		RoutingStepID:    stepID,
		OrderComponentID: component.ID,
		Component:        *component,
		Consumptions:     make([]RoutingStepConsumption, 0),
	}
}

// HasLiveConsumption returns true if the usage currently has a
// consumption record. While its step is completed a usage has exactly
// one.
func (u *RoutingStepComponent) HasLiveConsumption() bool {
	return len(u.Consumptions) > 0
}

// RoutingStepConsumption is the audit record created when a usage's
// required quantity is actually issued. It links the usage to the
// ISSUE movement and is deleted, together with that movement, when the
// step is un-completed.
type RoutingStepConsumption struct {
	shared.BaseEntity
	RoutingStepComponentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity               decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (RoutingStepConsumption) TableName() string {
	return "routing_step_consumptions"
}

// NewRoutingStepConsumption creates a new consumption record
func NewRoutingStepConsumption(usageID, movementID uuid.UUID, quantity decimal.Decimal) (*RoutingStepConsumption, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Consumption quantity must be positive")
	}

	return &RoutingStepConsumption{
		BaseEntity:             shared.NewBaseEntity(),
		RoutingStepComponentID: usageID,
		MovementID:             movementID,
		Quantity:               quantity,
	}, nil
}
