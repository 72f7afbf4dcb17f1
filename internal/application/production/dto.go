package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/production"
)

// BOMEntry is one component of the order-level bill of materials
type BOMEntry struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"` // Per unit of finished good
}

// RoutingStepEntry is one step of the submitted routing plan
type RoutingStepEntry struct {
	Sequence     int      `json:"sequence"`
	WorkCell     string   `json:"work_cell"`
	Instructions string   `json:"instructions"`
	Components   []string `json:"components"` // SKUs of BOM components consumed at this step
}

// CreateOrderRequest is the request to create a production order with
// its BOM and routing in one step. Dates are submitted as YYYY-MM-DD.
type CreateOrderRequest struct {
	OrderNumber             string             `json:"order_number"`
	FinishedGoodSKU         string             `json:"finished_good_sku"`
	Quantity                int64              `json:"quantity"`
	CustomerName            string             `json:"customer_name"`
	CreatedBy               string             `json:"created_by"`
	PromisedDate            string             `json:"promised_date"`
	ScheduledStartDate      string             `json:"scheduled_start_date"`
	ScheduledCompletionDate string             `json:"scheduled_completion_date"`
	BOM                     []BOMEntry         `json:"bom"`
	Routing                 []RoutingStepEntry `json:"routing"`
}

// IssueTarget is the location, and optionally batch, an issue movement
// is booked against when a usage is consumed.
type IssueTarget struct {
	LocationID uuid.UUID  `json:"location_id"`
	BatchID    *uuid.UUID `json:"batch_id,omitempty"`
}

// UpdateCompletionRequest carries the complete desired set of
// completed routing steps for an order, not a delta.
type UpdateCompletionRequest struct {
	CompletedStepIDs []uuid.UUID `json:"completed_step_ids"`
	// DefaultLocationID is the location issues are booked against when
	// no per-usage target is supplied.
	DefaultLocationID uuid.UUID `json:"default_location_id"`
	// IssueTargets overrides the issue location/batch per usage ID.
	IssueTargets map[uuid.UUID]IssueTarget `json:"issue_targets,omitempty"`
	// CompletedBy is recorded on the issue movements.
	CompletedBy string `json:"completed_by,omitempty"`
}

// UpdateCompletionResponse reports whether any step changed state
type UpdateCompletionResponse struct {
	Changed bool `json:"changed"`
}

// ReservationResponse represents a reservation in responses
type ReservationResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderLineID uuid.UUID `json:"order_line_id"`
	ItemID      uuid.UUID `json:"item_id"`
	Quantity    string    `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComponentResponse represents an order-level BOM component in responses
type ComponentResponse struct {
	ID       uuid.UUID `json:"id"`
	ItemID   uuid.UUID `json:"item_id"`
	Quantity string    `json:"quantity"` // Per unit of finished good
}

// UsageResponse represents a routing-step component usage in responses
type UsageResponse struct {
	ID               uuid.UUID `json:"id"`
	OrderComponentID uuid.UUID `json:"order_component_id"`
	Consumed         bool      `json:"consumed"`
}

// StepResponse represents a routing step in responses
type StepResponse struct {
	ID           uuid.UUID       `json:"id"`
	Sequence     int             `json:"sequence"`
	WorkCell     string          `json:"work_cell"`
	Instructions string          `json:"instructions"`
	Completed    bool            `json:"completed"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	Usages       []UsageResponse `json:"usages"`
}

// LineResponse represents an order line in responses
type LineResponse struct {
	ID           uuid.UUID             `json:"id"`
	ItemID       uuid.UUID             `json:"item_id"`
	Quantity     string                `json:"quantity"`
	Components   []ComponentResponse   `json:"components"`
	Reservations []ReservationResponse `json:"reservations"`
}

// OrderResponse represents a production order in responses
type OrderResponse struct {
	ID                      uuid.UUID              `json:"id"`
	OrderNumber             string                 `json:"order_number"`
	Status                  production.OrderStatus `json:"status"`
	CustomerName            string                 `json:"customer_name"`
	CreatedByName           string                 `json:"created_by_name"`
	PromisedDate            time.Time              `json:"promised_date"`
	ScheduledStartDate      time.Time              `json:"scheduled_start_date"`
	ScheduledCompletionDate time.Time              `json:"scheduled_completion_date"`
	RoutingProgress         *float64               `json:"routing_progress,omitempty"`
	Lines                   []LineResponse         `json:"lines"`
	Steps                   []StepResponse         `json:"steps"`
	CreatedAt               time.Time              `json:"created_at"`
}

// ToOrderResponse converts a production order aggregate to its response form
func ToOrderResponse(order *production.ProductionOrder) OrderResponse {
	lines := make([]LineResponse, 0, len(order.Lines))
	for idx := range order.Lines {
		line := &order.Lines[idx]

		components := make([]ComponentResponse, 0, len(line.Components))
		for _, component := range line.Components {
			components = append(components, ComponentResponse{
				ID:       component.ID,
				ItemID:   component.ItemID,
				Quantity: component.Quantity.String(),
			})
		}

		lineReservations := make([]ReservationResponse, 0)
		for _, reservation := range line.Reservations {
			lineReservations = append(lineReservations, ReservationResponse{
				ID:          reservation.ID,
				OrderLineID: reservation.OrderLineID,
				ItemID:      reservation.ItemID,
				Quantity:    reservation.Quantity.String(),
				CreatedAt:   reservation.CreatedAt,
			})
		}

		lines = append(lines, LineResponse{
			ID:           line.ID,
			ItemID:       line.ItemID,
			Quantity:     line.Quantity.String(),
			Components:   components,
			Reservations: lineReservations,
		})
	}

	steps := make([]StepResponse, 0, len(order.Steps))
	for _, step := range order.SortedSteps() {
		usages := make([]UsageResponse, 0, len(step.Usages))
		for idx := range step.Usages {
			usage := &step.Usages[idx]
			usages = append(usages, UsageResponse{
				ID:               usage.ID,
				OrderComponentID: usage.OrderComponentID,
				Consumed:         usage.HasLiveConsumption(),
			})
		}

		steps = append(steps, StepResponse{
			ID:           step.ID,
			Sequence:     step.Sequence,
			WorkCell:     step.WorkCell,
			Instructions: step.Instructions,
			Completed:    step.Completed,
			CompletedAt:  step.CompletedAt,
			Usages:       usages,
		})
	}

	return OrderResponse{
		ID:                      order.ID,
		OrderNumber:             order.OrderNumber,
		Status:                  order.Status,
		CustomerName:            order.CustomerName,
		CreatedByName:           order.CreatedByName,
		PromisedDate:            order.PromisedDate,
		ScheduledStartDate:      order.ScheduledStartDate,
		ScheduledCompletionDate: order.ScheduledCompletionDate,
		RoutingProgress:         order.RoutingProgress(),
		Lines:                   lines,
		Steps:                   steps,
		CreatedAt:               order.CreatedAt,
	}
}
