package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByLine finds all reservations on an order line
func (r *GormReservationRepository) FindByLine(ctx context.Context, orderLineID uuid.UUID) ([]production.Reservation, error) {
	var reservations []production.Reservation
	if err := r.db.WithContext(ctx).
		Where("order_line_id = ?", orderLineID).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindByLineAndItem finds the reservation for a component item on an
// order line
func (r *GormReservationRepository) FindByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) (*production.Reservation, error) {
	var reservation production.Reservation
	if err := r.db.WithContext(ctx).
		Where("order_line_id = ? AND item_id = ?", orderLineID, itemID).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// Create persists a new reservation
func (r *GormReservationRepository) Create(ctx context.Context, reservation *production.Reservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteByLineAndItem removes the reservation for a component item on
// an order line. Removing a reservation that does not exist is not an
// error; consumption must succeed whether or not material was reserved.
func (r *GormReservationRepository) DeleteByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&production.Reservation{}, "order_line_id = ? AND item_id = ?", orderLineID, itemID).
		Error
}

// SumByItem returns the total quantity currently reserved for an item
// across all order lines.
func (r *GormReservationRepository) SumByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&production.Reservation{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("item_id = ?", itemID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormReservationRepository implements ReservationRepository
var _ production.ReservationRepository = (*GormReservationRepository)(nil)
