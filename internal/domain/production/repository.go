package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for production order
// persistence. Implementations load the full aggregate graph (lines,
// components, steps, usages, consumptions).
type OrderRepository interface {
	// FindByID finds an order by its ID with the full graph loaded
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)

	// FindByIDForUpdate finds an order by ID and takes a row lock on
	// it for the duration of the surrounding transaction, serializing
	// concurrent fulfillment operations against the same order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*ProductionOrder, error)

	// ExistsByOrderNumber checks if an order number is already in use
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionOrder, error)

	// Save persists the order together with its lines, components,
	// steps and usages in one transaction.
	Save(ctx context.Context, order *ProductionOrder) error

	// SaveStep persists a routing step's completion state
	SaveStep(ctx context.Context, step *RoutingStep) error

	// AddConsumption appends a consumption record for a usage
	AddConsumption(ctx context.Context, consumption *RoutingStepConsumption) error

	// DeleteConsumptionsByUsage removes all consumption records for a
	// usage, returning the IDs of the movements they pointed at.
	DeleteConsumptionsByUsage(ctx context.Context, usageID uuid.UUID) ([]uuid.UUID, error)

	// Delete deletes an order and, via cascade, its whole graph
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ReservationRepository defines the interface for reservation
// persistence
type ReservationRepository interface {
	// FindByLine finds all reservations on an order line
	FindByLine(ctx context.Context, orderLineID uuid.UUID) ([]Reservation, error)

	// FindByLineAndItem finds the reservation for a component item on
	// an order line, or shared.ErrNotFound.
	FindByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) (*Reservation, error)

	// Create persists a new reservation
	Create(ctx context.Context, reservation *Reservation) error

	// DeleteByLineAndItem removes the reservation for a component item
	// on an order line. Removing a reservation that does not exist is
	// not an error.
	DeleteByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) error

	// SumByItem returns the total quantity currently reserved for an
	// item across all order lines.
	SumByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
}
