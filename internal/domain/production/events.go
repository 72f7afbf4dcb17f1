package production

import (
	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
)

// Event types for the production context
const (
	EventTypeOrderCreated         = "production.order_created"
	EventTypeRoutingStepCompleted = "production.routing_step_completed"
	EventTypeRoutingStepReverted  = "production.routing_step_reverted"
)

// OrderCreatedEvent is emitted when a production order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *ProductionOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "ProductionOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
	}
}

// RoutingStepCompletedEvent is emitted when a routing step transitions
// to completed and its component usages are consumed
type RoutingStepCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	StepID   uuid.UUID `json:"step_id"`
	Sequence int       `json:"sequence"`
}

// NewRoutingStepCompletedEvent creates a new RoutingStepCompletedEvent
func NewRoutingStepCompletedEvent(orderID uuid.UUID, step *RoutingStep) *RoutingStepCompletedEvent {
	return &RoutingStepCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoutingStepCompleted, "ProductionOrder", orderID),
		OrderID:         orderID,
		StepID:          step.ID,
		Sequence:        step.Sequence,
	}
}

// RoutingStepRevertedEvent is emitted when a routing step transitions
// back to not-completed and its consumptions are reversed
type RoutingStepRevertedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	StepID   uuid.UUID `json:"step_id"`
	Sequence int       `json:"sequence"`
}

// NewRoutingStepRevertedEvent creates a new RoutingStepRevertedEvent
func NewRoutingStepRevertedEvent(orderID uuid.UUID, step *RoutingStep) *RoutingStepRevertedEvent {
	return &RoutingStepRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoutingStepReverted, "ProductionOrder", orderID),
		OrderID:         orderID,
		StepID:          step.ID,
		Sequence:        step.Sequence,
	}
}
