package production

import (
	"context"

	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories
// the fulfillment orchestrations touch. When a function is executed
// within a transaction scope, all repository operations are part of
// the same database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all fulfillment
// repositories within a transaction. All repositories returned share
// the same underlying database transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the production order repository scoped to the current transaction
	OrderRepo() production.OrderRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() production.ReservationRepository
	// MovementRepo returns the movement ledger repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
	// ItemRepo returns the catalog item repository scoped to the current transaction
	ItemRepo() catalog.ItemRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually
// use transactions. This is useful for testing or when transaction
// support is not required.
type NoOpTransactionScope struct {
	orderRepo       production.OrderRepository
	reservationRepo production.ReservationRepository
	movementRepo    stock.MovementRepository
	itemRepo        catalog.ItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo production.OrderRepository,
	reservationRepo production.ReservationRepository,
	movementRepo stock.MovementRepository,
	itemRepo catalog.ItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:       orderRepo,
		reservationRepo: reservationRepo,
		movementRepo:    movementRepo,
		itemRepo:        itemRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the production order repository.
func (s *NoOpTransactionScope) OrderRepo() production.OrderRepository {
	return s.orderRepo
}

// ReservationRepo returns the reservation repository.
func (s *NoOpTransactionScope) ReservationRepo() production.ReservationRepository {
	return s.reservationRepo
}

// MovementRepo returns the movement ledger repository.
func (s *NoOpTransactionScope) MovementRepo() stock.MovementRepository {
	return s.movementRepo
}

// ItemRepo returns the catalog item repository.
func (s *NoOpTransactionScope) ItemRepo() catalog.ItemRepository {
	return s.itemRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
