package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM. Reads
// load the full aggregate graph: lines with their components and
// reservations, steps with their usages and consumptions.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withGraph(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Lines.Components").
		Preload("Lines.Reservations").
		Preload("Steps.Usages.Component").
		Preload("Steps.Usages.Consumptions")
}

// FindByID finds an order by its ID with the full graph loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	var order production.ProductionOrder
	if err := r.withGraph(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row for the duration of the
// surrounding transaction, then loads the full graph. The row lock
// serializes concurrent fulfillment operations against the same order;
// child rows are only ever modified under that lock.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	var locked production.ProductionOrder
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*production.ProductionOrder, error) {
	var order production.ProductionOrder
	if err := r.withGraph(ctx).First(&order, "order_number = ?", strings.TrimSpace(orderNumber)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ExistsByOrderNumber checks if an order number is already in use
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&production.ProductionOrder{}).
		Where("order_number = ?", strings.TrimSpace(orderNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds orders matching the filter. List reads skip the child
// graph; callers needing lines and steps fetch single orders.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionOrder, error) {
	var orders []production.ProductionOrder
	query := applyOrderFilters(r.db.WithContext(ctx).Model(&production.ProductionOrder{}), filter)
	query = applyPagination(query, filter, OrderSortFields, "created_at")

	if err := query.Preload("Lines").Preload("Steps").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists the order together with its lines, components, steps
// and usages.
func (r *GormOrderRepository) Save(ctx context.Context, order *production.ProductionOrder) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveStep persists a routing step's completion state. Only the
// completion columns change after creation.
func (r *GormOrderRepository) SaveStep(ctx context.Context, step *production.RoutingStep) error {
	result := r.db.WithContext(ctx).
		Model(&production.RoutingStep{}).
		Where("id = ?", step.ID).
		Updates(map[string]interface{}{
			"completed":    step.Completed,
			"completed_at": step.CompletedAt,
			"updated_at":   step.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddConsumption appends a consumption record for a usage
func (r *GormOrderRepository) AddConsumption(ctx context.Context, consumption *production.RoutingStepConsumption) error {
	return r.db.WithContext(ctx).Create(consumption).Error
}

// DeleteConsumptionsByUsage removes all consumption records for a
// usage, returning the IDs of the movements they pointed at so the
// caller can delete those too.
func (r *GormOrderRepository) DeleteConsumptionsByUsage(ctx context.Context, usageID uuid.UUID) ([]uuid.UUID, error) {
	var movementIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&production.RoutingStepConsumption{}).
		Where("routing_step_component_id = ?", usageID).
		Pluck("movement_id", &movementIDs).Error; err != nil {
		return nil, err
	}
	if len(movementIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	if err := r.db.WithContext(ctx).
		Delete(&production.RoutingStepConsumption{}, "routing_step_component_id = ?", usageID).
		Error; err != nil {
		return nil, err
	}
	return movementIDs, nil
}

// Delete deletes an order and, via cascade, its whole graph
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&production.ProductionOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyOrderFilters(r.db.WithContext(ctx).Model(&production.ProductionOrder{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyOrderFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_number":
			query = query.Where("order_number = ?", value)
		case "customer":
			query = query.Where("customer_name ILIKE ?", "%"+strings.TrimSpace(value.(string))+"%")
		case "promised_before":
			query = query.Where("promised_date < ?", value)
		case "scheduled_after":
			query = query.Where("scheduled_start_date >= ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ production.OrderRepository = (*GormOrderRepository)(nil)
