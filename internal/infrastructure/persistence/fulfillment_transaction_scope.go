package persistence

import (
	"context"

	appproduction "github.com/mfgops/backend/internal/application/production"
	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM
// transactions. It provides atomic execution of the fulfillment
// orchestrations: order creation with its all-or-nothing reservations
// and routing completion with its consumption bookkeeping.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appproduction.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories exposes the fulfillment repositories
// bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the production order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() production.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// ReservationRepo returns the reservation repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReservationRepo() production.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

// MovementRepo returns the movement ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// ItemRepo returns the catalog item repository scoped to the current transaction
func (r *gormTransactionalRepositories) ItemRepo() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appproduction.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appproduction.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
