package production

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductionOrder is the aggregate root for a manufacturing order.
// It owns its order lines (with their order-level BOM components) and
// its routing steps (with their component usages). The whole graph is
// created atomically at order creation and is immutable in shape
// afterwards; only routing-step completion flags, consumptions and
// reservations change during the order's working life.
type ProductionOrder struct {
	shared.BaseAggregateRoot
	OrderNumber             string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_production_orders_number"`
	Status                  OrderStatus `gorm:"type:varchar(20);not null;index"`
	CustomerName            string      `gorm:"type:varchar(200);not null"`
	CreatedByName           string      `gorm:"type:varchar(100);not null"`
	PromisedDate            time.Time   `gorm:"type:date;not null"`
	ScheduledStartDate      time.Time   `gorm:"type:date;not null"`
	ScheduledCompletionDate time.Time   `gorm:"type:date;not null"`

	Lines []OrderLine   `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Steps []RoutingStep `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductionOrder) TableName() string {
	return "production_orders"
}

// NewProductionOrder creates a new production order. Status starts as
// SCHEDULED; the creation orchestrator downgrades it to
// WAITING_MATERIAL when any BOM component is short of on-hand stock.
func NewProductionOrder(orderNumber, customerName, createdByName string, promised, scheduledStart, scheduledCompletion time.Time) (*ProductionOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if createdByName == "" {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator name cannot be empty")
	}
	if scheduledStart.After(scheduledCompletion) {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Scheduled start must not be after scheduled completion")
	}
	if promised.Before(scheduledCompletion) {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Promised date must not be before scheduled completion")
	}

	order := &ProductionOrder{
		BaseAggregateRoot:       shared.NewBaseAggregateRoot(),
		OrderNumber:             orderNumber,
		Status:                  OrderStatusScheduled,
		CustomerName:            customerName,
		CreatedByName:           createdByName,
		PromisedDate:            promised,
		ScheduledStartDate:      scheduledStart,
		ScheduledCompletionDate: scheduledCompletion,
		Lines:                   make([]OrderLine, 0),
		Steps:                   make([]RoutingStep, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a finished-good line to the order. Line dates mirror
// the order-level dates.
func (o *ProductionOrder) AddLine(itemID uuid.UUID, quantity decimal.Decimal) (*OrderLine, error) {
	line, err := NewOrderLine(o.ID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	line.PromisedDate = &o.PromisedDate
	line.ScheduledStartDate = &o.ScheduledStartDate
	line.ScheduledCompletionDate = &o.ScheduledCompletionDate

	o.Lines = append(o.Lines, *line)
	o.UpdatedAt = time.Now()

	return &o.Lines[len(o.Lines)-1], nil
}

// AddStep adds a routing step with the given sequence. Sequences must
// be unique per order.
func (o *ProductionOrder) AddStep(sequence int, workCell, instructions string) (*RoutingStep, error) {
	for _, step := range o.Steps {
		if step.Sequence == sequence {
			return nil, shared.NewDomainError("DUPLICATE_SEQUENCE", "Routing step sequence already in use")
		}
	}

	step, err := NewRoutingStep(o.ID, sequence, workCell, instructions)
	if err != nil {
		return nil, err
	}

	o.Steps = append(o.Steps, *step)
	o.UpdatedAt = time.Now()

	return &o.Steps[len(o.Steps)-1], nil
}

// MarkWaitingMaterial downgrades a freshly created order because at
// least one BOM component lacks sufficient on-hand stock.
func (o *ProductionOrder) MarkWaitingMaterial() {
	o.Status = OrderStatusWaitingMaterial
	o.UpdatedAt = time.Now()
}

// PrimaryLine returns the order's first line, or nil if the order has
// no lines. Orders created through the fulfillment engine always carry
// exactly one line.
func (o *ProductionOrder) PrimaryLine() *OrderLine {
	if len(o.Lines) == 0 {
		return nil
	}
	return &o.Lines[0]
}

// LineByID returns the line with the given ID, or nil
func (o *ProductionOrder) LineByID(lineID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// StepByID returns the routing step with the given ID, or nil
func (o *ProductionOrder) StepByID(stepID uuid.UUID) *RoutingStep {
	for idx := range o.Steps {
		if o.Steps[idx].ID == stepID {
			return &o.Steps[idx]
		}
	}
	return nil
}

// SortedSteps returns pointers to the order's steps ordered by sequence
func (o *ProductionOrder) SortedSteps() []*RoutingStep {
	steps := make([]*RoutingStep, 0, len(o.Steps))
	for idx := range o.Steps {
		steps = append(steps, &o.Steps[idx])
	}
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Sequence < steps[j].Sequence
	})
	return steps
}

// RoutingProgress returns completed-step-count / total-step-count, or
// nil when the order has no routing steps. It is a pure read-side
// aggregate, never stored.
func (o *ProductionOrder) RoutingProgress() *float64 {
	if len(o.Steps) == 0 {
		return nil
	}
	completed := 0
	for _, step := range o.Steps {
		if step.Completed {
			completed++
		}
	}
	progress := float64(completed) / float64(len(o.Steps))
	return &progress
}

// IsActive returns true if the order is in an active status
func (o *ProductionOrder) IsActive() bool {
	return o.Status.IsActive()
}

// IsReservable returns true if the order may hold reservations
func (o *ProductionOrder) IsReservable() bool {
	return o.Status.IsReservable()
}

// OrderLine represents one finished-good line on an order. It owns the
// order-level BOM (components) captured at creation time and the
// reservations earmarking stock for those components.
type OrderLine struct {
	shared.BaseEntity
	OrderID                 uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID                  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity                decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PromisedDate            *time.Time      `gorm:"type:date;check:chk_order_lines_promise_window,promised_date IS NULL OR scheduled_completion_date IS NULL OR promised_date >= scheduled_completion_date"`
	ScheduledStartDate      *time.Time      `gorm:"type:date;check:chk_order_lines_schedule_window,scheduled_start_date IS NULL OR scheduled_completion_date IS NULL OR scheduled_start_date <= scheduled_completion_date"`
	ScheduledCompletionDate *time.Time      `gorm:"type:date"`

	Components   []OrderComponent `gorm:"foreignKey:OrderLineID;references:ID;constraint:OnDelete:CASCADE"`
	Reservations []Reservation    `gorm:"foreignKey:OrderLineID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates a new order line
func NewOrderLine(orderID, itemID uuid.UUID, quantity decimal.Decimal) (*OrderLine, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}

	return &OrderLine{
		BaseEntity:   shared.NewBaseEntity(),
		OrderID:      orderID,
		ItemID:       itemID,
		Quantity:     quantity,
		Components:   make([]OrderComponent, 0),
		Reservations: make([]Reservation, 0),
	}, nil
}

// AddComponent captures a BOM component onto the line. A component
// item may appear at most once per line.
func (l *OrderLine) AddComponent(itemID uuid.UUID, quantityPerUnit decimal.Decimal) (*OrderComponent, error) {
	for _, component := range l.Components {
		if component.ItemID == itemID {
			return nil, shared.NewDomainError("DUPLICATE_COMPONENT", "Component already present on this order line")
		}
	}

	component, err := NewOrderComponent(l.ID, itemID, quantityPerUnit)
	if err != nil {
		return nil, err
	}

	l.Components = append(l.Components, *component)
	l.UpdatedAt = time.Now()

	return &l.Components[len(l.Components)-1], nil
}

// ComponentByID returns the component with the given ID, or nil
func (l *OrderLine) ComponentByID(componentID uuid.UUID) *OrderComponent {
	for idx := range l.Components {
		if l.Components[idx].ID == componentID {
			return &l.Components[idx]
		}
	}
	return nil
}

// ComponentByItem returns the component for the given item, or nil
func (l *OrderLine) ComponentByItem(itemID uuid.UUID) *OrderComponent {
	for idx := range l.Components {
		if l.Components[idx].ItemID == itemID {
			return &l.Components[idx]
		}
	}
	return nil
}

// OrderComponent is one order-level BOM entry: the quantity of a
// component item required per unit of the finished good. It is the
// authoritative BOM for consumption purposes, captured at
// order-creation time and never changed afterwards.
type OrderComponent struct {
	shared.BaseEntity
	OrderLineID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_components_line_item,priority:1"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_components_line_item,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;check:chk_order_components_quantity,quantity > 0"` // Per unit of finished good
}

// TableName returns the table name for GORM
func (OrderComponent) TableName() string {
	return "order_components"
}

// NewOrderComponent creates a new order-level BOM component
func NewOrderComponent(orderLineID, itemID uuid.UUID, quantityPerUnit decimal.Decimal) (*OrderComponent, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Component item ID cannot be empty")
	}
	if quantityPerUnit.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Component quantity must be positive")
	}

	return &OrderComponent{
		BaseEntity:  shared.NewBaseEntity(),
		OrderLineID: orderLineID,
		ItemID:      itemID,
		Quantity:    quantityPerUnit,
	}, nil
}

// RequiredFor returns the total quantity this component requires for
// the given line: quantity-per-unit times the line quantity.
func (c *OrderComponent) RequiredFor(line *OrderLine) decimal.Decimal {
	return c.Quantity.Mul(line.Quantity)
}
