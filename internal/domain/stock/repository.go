package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementRepository defines the interface for the append-only
// movement ledger. Movements are created and, in the single case of a
// consumption reversal, deleted; they are never updated.
type MovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// FindByItem finds movements for an item, newest first
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// Create appends a movement to the ledger
	Create(ctx context.Context, movement *Movement) error

	// Delete removes a movement. Only used when a routing-step
	// consumption is reversed.
	Delete(ctx context.Context, id uuid.UUID) error

	// SumQuantityByItem returns the signed sum of all movement
	// quantities for an item: its on-hand quantity.
	SumQuantityByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)

	// SumQuantityByItemAtLocation returns the on-hand quantity of an
	// item at a single location.
	SumQuantityByItemAtLocation(ctx context.Context, itemID, locationID uuid.UUID) (decimal.Decimal, error)

	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
