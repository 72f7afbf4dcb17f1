package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// StockService answers on-hand queries and books the movements that do
// not originate from routing-step completion: receipts, adjustments
// and cycle counts.
type StockService struct {
	movementRepo    stock.MovementRepository
	reservationRepo production.ReservationRepository
	itemRepo        catalog.ItemRepository
	locationRepo    catalog.LocationRepository
	publisher       shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(
	movementRepo stock.MovementRepository,
	reservationRepo production.ReservationRepository,
	itemRepo catalog.ItemRepository,
	locationRepo catalog.LocationRepository,
) *StockService {
	return &StockService{
		movementRepo:    movementRepo,
		reservationRepo: reservationRepo,
		itemRepo:        itemRepo,
		locationRepo:    locationRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// OnHand returns the item's stock position: the signed sum of its
// movements, the quantity reserved for production orders, and what
// remains available.
func (s *StockService) OnHand(ctx context.Context, itemID uuid.UUID) (*OnHandResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	onHand, err := s.movementRepo.SumQuantityByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.reservationRepo.SumByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return &OnHandResponse{
		ItemID:    itemID,
		OnHand:    onHand.String(),
		Reserved:  reserved.String(),
		Available: onHand.Sub(reserved).String(),
	}, nil
}

// OnHandAtLocation returns the item's on-hand quantity at one location
func (s *StockService) OnHandAtLocation(ctx context.Context, itemID, locationID uuid.UUID) (decimal.Decimal, error) {
	return s.movementRepo.SumQuantityByItemAtLocation(ctx, itemID, locationID)
}

// Receive books a RECEIPT movement
func (s *StockService) Receive(ctx context.Context, req ReceiveStockRequest) (*MovementResponse, error) {
	if err := s.checkItemAndLocation(ctx, req.ItemID, req.LocationID); err != nil {
		return nil, err
	}

	movement, err := stock.NewReceipt(req.ItemID, req.LocationID, req.Quantity)
	if err != nil {
		return nil, err
	}
	movement = movement.
		WithPerson(req.Person).
		WithReference(req.Reference).
		WithPONumber(req.PONumber)
	if req.BatchID != nil {
		movement = movement.WithBatch(*req.BatchID)
	}

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	s.publish(ctx, stock.NewStockReceivedEvent(movement))
	resp := ToMovementResponse(movement)
	return &resp, nil
}

// Adjust books an ADJUST movement for a signed delta and, on a
// decrease, emits a below-minimum alert when the item falls under its
// minimum stock level.
func (s *StockService) Adjust(ctx context.Context, req AdjustStockRequest) (*MovementResponse, error) {
	if err := s.checkItemAndLocation(ctx, req.ItemID, req.LocationID); err != nil {
		return nil, err
	}

	movement, err := stock.NewAdjustment(req.ItemID, req.LocationID, req.Delta)
	if err != nil {
		return nil, err
	}
	movement = movement.WithPerson(req.Person).WithReference(req.Reference)

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	if movement.IsOutbound() {
		if err := s.alertIfBelowMinimum(ctx, req.ItemID); err != nil {
			return nil, err
		}
	}

	resp := ToMovementResponse(movement)
	return &resp, nil
}

// RecordCount books a cycle-count correction. The counted quantity
// replaces the location's on-hand: the difference is written as a
// COUNT_GAIN or COUNT_LOSS movement. A count matching the ledger books
// nothing.
func (s *StockService) RecordCount(ctx context.Context, req RecordCountRequest) (*MovementResponse, error) {
	if req.Counted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	if err := s.checkItemAndLocation(ctx, req.ItemID, req.LocationID); err != nil {
		return nil, err
	}

	onHand, err := s.movementRepo.SumQuantityByItemAtLocation(ctx, req.ItemID, req.LocationID)
	if err != nil {
		return nil, err
	}

	delta := req.Counted.Sub(onHand)
	if delta.IsZero() {
		return nil, nil
	}

	movementType := stock.MovementTypeCountGain
	if delta.IsNegative() {
		movementType = stock.MovementTypeCountLoss
	}
	movement, err := stock.NewMovement(req.ItemID, req.LocationID, delta, movementType)
	if err != nil {
		return nil, err
	}
	movement = movement.WithPerson(req.Person)

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	if movement.IsOutbound() {
		if err := s.alertIfBelowMinimum(ctx, req.ItemID); err != nil {
			return nil, err
		}
	}

	resp := ToMovementResponse(movement)
	return &resp, nil
}

// Movements lists an item's movements, newest first
func (s *StockService) Movements(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]MovementResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	movements, err := s.movementRepo.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for idx := range movements {
		responses = append(responses, ToMovementResponse(&movements[idx]))
	}
	return responses, total, nil
}

func (s *StockService) checkItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return err
	}
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return err
	}
	return nil
}

func (s *StockService) alertIfBelowMinimum(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.HasMinStock() {
		return nil
	}

	onHand, err := s.movementRepo.SumQuantityByItem(ctx, itemID)
	if err != nil {
		return err
	}
	if onHand.LessThan(item.MinStock) {
		s.publish(ctx, stock.NewStockBelowMinimumEvent(item.ID, item.SKU, onHand, item.MinStock))
	}
	return nil
}

func (s *StockService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
}
