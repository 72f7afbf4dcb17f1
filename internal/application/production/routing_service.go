package production

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/domain/stock"
)

// RoutingService reconciles the completion state of an order's routing
// plan against a desired set of completed steps. Completing a step
// converts the reservations of its component usages into stock issues
// and consumption records; un-completing a step reverses that exactly,
// restoring the reservations. The whole reconciliation runs in one
// transaction under a row lock on the order.
type RoutingService struct {
	orderRepo production.OrderRepository
	scope     TransactionScope
	publisher shared.EventPublisher
}

// NewRoutingService creates a new RoutingService
func NewRoutingService(orderRepo production.OrderRepository, scope TransactionScope) *RoutingService {
	return &RoutingService{
		orderRepo: orderRepo,
		scope:     scope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RoutingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// UpdateCompletion applies the desired completion set to the order's
// routing steps. Steps absent from the request are reverted, steps
// present are completed; steps whose state already matches are left
// untouched. When the request changes nothing, no rows are written and
// Changed is false.
//
// Completion issues each usage's full requirement regardless of current
// on-hand stock. Availability was checked when the order was created;
// a negative resulting balance is a stocktake signal, not an error.
func (s *RoutingService) UpdateCompletion(ctx context.Context, orderID uuid.UUID, req UpdateCompletionRequest) (*UpdateCompletionResponse, error) {
	desired := make(map[uuid.UUID]bool, len(req.CompletedStepIDs))
	for _, stepID := range req.CompletedStepIDs {
		desired[stepID] = true
	}

	var (
		resp   UpdateCompletionResponse
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		// Every requested step must belong to this order.
		for stepID := range desired {
			if order.StepByID(stepID) == nil {
				return shared.ErrNotFound
			}
		}

		now := time.Now()
		changed := false

		for _, step := range order.SortedSteps() {
			switch {
			case desired[step.ID] && !step.Completed:
				issued, err := s.completeStep(ctx, repos, order, step, req, now)
				if err != nil {
					return err
				}
				changed = true
				events = append(events, issued...)
				events = append(events, production.NewRoutingStepCompletedEvent(order.ID, step))

			case !desired[step.ID] && step.Completed:
				if err := s.revertStep(ctx, repos, order, step); err != nil {
					return err
				}
				changed = true
				events = append(events, production.NewRoutingStepRevertedEvent(order.ID, step))
			}
		}

		if changed {
			belowMin, err := s.collectBelowMinimumEvents(ctx, repos, order)
			if err != nil {
				return err
			}
			events = append(events, belowMin...)
		}

		resp = UpdateCompletionResponse{Changed: changed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil && len(events) > 0 {
		_ = s.publisher.Publish(ctx, events...)
	}
	return &resp, nil
}

// completeStep marks the step done and, for each of its component
// usages, writes the issue movement and consumption record and releases
// the matching reservation. The returned events carry one
// StockIssuedEvent per issue movement booked.
func (s *RoutingService) completeStep(ctx context.Context, repos TransactionalRepositories, order *production.ProductionOrder, step *production.RoutingStep, req UpdateCompletionRequest, now time.Time) ([]shared.DomainEvent, error) {
	step.MarkCompleted(now)
	if err := repos.OrderRepo().SaveStep(ctx, step); err != nil {
		return nil, err
	}

	var events []shared.DomainEvent
	for idx := range step.Usages {
		usage := &step.Usages[idx]
		line := order.LineByID(usage.Component.OrderLineID)
		if line == nil {
			return nil, shared.NewDomainError("ORPHAN_USAGE", "Routing step usage references an unknown order line")
		}
		required := usage.Component.RequiredFor(line)

		locationID, batchID, err := resolveIssueTarget(usage.ID, req)
		if err != nil {
			return nil, err
		}

		movement, err := stock.NewIssue(usage.Component.ItemID, locationID, required)
		if err != nil {
			return nil, err
		}
		movement = movement.
			WithPerson(req.CompletedBy).
			WithReference(order.OrderNumber).
			WithOccurredAt(now)
		if batchID != nil {
			movement = movement.WithBatch(*batchID)
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return nil, err
		}
		events = append(events, stock.NewStockIssuedEvent(movement))

		consumption, err := production.NewRoutingStepConsumption(usage.ID, movement.ID, required)
		if err != nil {
			return nil, err
		}
		if err := repos.OrderRepo().AddConsumption(ctx, consumption); err != nil {
			return nil, err
		}
		usage.Consumptions = append(usage.Consumptions, *consumption)

		if err := repos.ReservationRepo().DeleteByLineAndItem(ctx, line.ID, usage.Component.ItemID); err != nil {
			return nil, err
		}
	}

	return events, nil
}

// revertStep clears the step's completed state, deletes its consumption
// records with their movements, and recreates the reservations.
func (s *RoutingService) revertStep(ctx context.Context, repos TransactionalRepositories, order *production.ProductionOrder, step *production.RoutingStep) error {
	step.MarkNotCompleted()
	if err := repos.OrderRepo().SaveStep(ctx, step); err != nil {
		return err
	}

	for idx := range step.Usages {
		usage := &step.Usages[idx]
		line := order.LineByID(usage.Component.OrderLineID)
		if line == nil {
			return shared.NewDomainError("ORPHAN_USAGE", "Routing step usage references an unknown order line")
		}

		movementIDs, err := repos.OrderRepo().DeleteConsumptionsByUsage(ctx, usage.ID)
		if err != nil {
			return err
		}
		for _, movementID := range movementIDs {
			if err := repos.MovementRepo().Delete(ctx, movementID); err != nil {
				return err
			}
		}
		usage.Consumptions = nil

		// Several steps may consume the same component; reverting an
		// earlier sibling can already have restored the reservation.
		// One reservation per (line, item) is the invariant, so only
		// create when none exists.
		existing, err := repos.ReservationRepo().FindByLineAndItem(ctx, line.ID, usage.Component.ItemID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			continue
		}

		reservation, err := production.NewReservation(line.ID, usage.Component.ItemID, usage.Component.RequiredFor(line))
		if err != nil {
			return err
		}
		if err := repos.ReservationRepo().Create(ctx, reservation); err != nil {
			return err
		}
	}

	return nil
}

// collectBelowMinimumEvents emits a StockBelowMinimumEvent for every
// component item whose on-hand balance fell under its minimum stock
// level during this reconciliation.
func (s *RoutingService) collectBelowMinimumEvents(ctx context.Context, repos TransactionalRepositories, order *production.ProductionOrder) ([]shared.DomainEvent, error) {
	seen := make(map[uuid.UUID]bool)
	var events []shared.DomainEvent

	for idx := range order.Lines {
		line := &order.Lines[idx]
		for cidx := range line.Components {
			itemID := line.Components[cidx].ItemID
			if seen[itemID] {
				continue
			}
			seen[itemID] = true

			item, err := repos.ItemRepo().FindByID(ctx, itemID)
			if err != nil {
				return nil, err
			}
			if !item.HasMinStock() {
				continue
			}

			onHand, err := repos.MovementRepo().SumQuantityByItem(ctx, itemID)
			if err != nil {
				return nil, err
			}
			if onHand.LessThan(item.MinStock) {
				events = append(events, stock.NewStockBelowMinimumEvent(item.ID, item.SKU, onHand, item.MinStock))
			}
		}
	}

	return events, nil
}

// resolveIssueTarget picks the stock location (and optional batch) for
// a usage's issue movement: the per-usage override when present,
// otherwise the request's default location.
func resolveIssueTarget(usageID uuid.UUID, req UpdateCompletionRequest) (uuid.UUID, *uuid.UUID, error) {
	if target, ok := req.IssueTargets[usageID]; ok {
		return target.LocationID, target.BatchID, nil
	}
	if req.DefaultLocationID != uuid.Nil {
		return req.DefaultLocationID, nil, nil
	}
	return uuid.Nil, nil, shared.NewDomainError("MISSING_ISSUE_TARGET", "No stock location given for component issue")
}
