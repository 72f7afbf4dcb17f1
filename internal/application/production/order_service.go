package production

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// OrderService creates production orders from a BOM and routing plan.
// Creation is all-or-nothing: the request is validated in full first
// (accumulating every problem), then the order graph, its routing and
// its reservations are committed in a single transaction. Nothing is
// written when validation fails.
type OrderService struct {
	orderRepo production.OrderRepository
	scope     TransactionScope
	publisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo production.OrderRepository, scope TransactionScope) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		scope:     scope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// creationPlan is the validated form of a CreateOrderRequest
type creationPlan struct {
	orderNumber         string
	finishedItem        *catalog.Item
	quantity            decimal.Decimal
	promised            time.Time
	scheduledStart      time.Time
	scheduledCompletion time.Time
	components          []plannedComponent
	steps               []RoutingStepEntry
}

type plannedComponent struct {
	item            catalog.Item
	quantityPerUnit decimal.Decimal
}

// Create validates the request and, on success, persists the order
// with its line, order-level BOM, routing steps, component usages and
// initial reservations in one transaction. All validation problems are
// accumulated and returned together as ValidationErrors; a rejected
// request performs no writes.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	var (
		resp   OrderResponse
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		plan, err := s.validate(ctx, repos, req)
		if err != nil {
			return err
		}

		order, err := s.buildOrder(req, plan)
		if err != nil {
			return err
		}
		line := order.PrimaryLine()

		// All-or-nothing reservation policy: reservations are only
		// written when every component's full requirement is covered
		// by current on-hand stock.
		covered := true
		for _, component := range line.Components {
			required := component.RequiredFor(line)
			onHand, err := repos.MovementRepo().SumQuantityByItem(ctx, component.ItemID)
			if err != nil {
				return err
			}
			if onHand.LessThan(required) {
				covered = false
				break
			}
		}
		if !covered {
			order.MarkWaitingMaterial()
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		if covered {
			for idx := range line.Components {
				component := &line.Components[idx]
				reservation, err := production.NewReservation(line.ID, component.ItemID, component.RequiredFor(line))
				if err != nil {
					return err
				}
				if err := repos.ReservationRepo().Create(ctx, reservation); err != nil {
					return err
				}
				line.Reservations = append(line.Reservations, *reservation)
			}
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &resp, nil
}

// GetByID retrieves a production order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByOrderNumber retrieves a production order by order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves production orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter shared.Filter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToOrderResponse(&orders[idx]))
	}
	return responses, total, nil
}

// validate runs the full validation pipeline, accumulating every
// problem before failing. Only read-only queries are issued here.
func (s *OrderService) validate(ctx context.Context, repos TransactionalRepositories, req CreateOrderRequest) (*creationPlan, error) {
	var verrs ValidationErrors
	plan := &creationPlan{}

	// Order number, normalized once so the duplicate check, the
	// persisted value and later lookups all agree.
	plan.orderNumber = strings.TrimSpace(req.OrderNumber)
	if plan.orderNumber == "" {
		verrs = append(verrs, "Order number is required")
	} else {
		exists, err := repos.OrderRepo().ExistsByOrderNumber(ctx, plan.orderNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			verrs = append(verrs, fmt.Sprintf("Order number %q is already in use", plan.orderNumber))
		}
	}

	// Customer and creator
	if strings.TrimSpace(req.CustomerName) == "" {
		verrs = append(verrs, "Customer name is required")
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		verrs = append(verrs, "Creator name is required")
	}

	// Finished good
	if strings.TrimSpace(req.FinishedGoodSKU) == "" {
		verrs = append(verrs, "Finished good SKU is required")
	} else {
		item, err := repos.ItemRepo().FindBySKU(ctx, req.FinishedGoodSKU)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			verrs = append(verrs, fmt.Sprintf("Unknown item SKU: %s", req.FinishedGoodSKU))
		} else {
			plan.finishedItem = item
		}
	}

	// Quantity
	if req.Quantity <= 0 {
		verrs = append(verrs, "Quantity must be a positive integer")
	} else {
		plan.quantity = decimal.NewFromInt(req.Quantity)
	}

	// Dates
	promised, perr := parseRequiredDate("Promised date", req.PromisedDate, &verrs)
	start, serr := parseRequiredDate("Scheduled start date", req.ScheduledStartDate, &verrs)
	completion, cerr := parseRequiredDate("Scheduled completion date", req.ScheduledCompletionDate, &verrs)
	if serr == nil && cerr == nil && start.After(completion) {
		verrs = append(verrs, "Scheduled start date must not be after scheduled completion date")
	}
	if perr == nil && cerr == nil && promised.Before(completion) {
		verrs = append(verrs, "Promised date must not be before scheduled completion date")
	}
	plan.promised, plan.scheduledStart, plan.scheduledCompletion = promised, start, completion

	// BOM
	bomSKUs := make(map[string]bool, len(req.BOM))
	if len(req.BOM) == 0 {
		verrs = append(verrs, "BOM must contain at least one component")
	}
	for _, entry := range req.BOM {
		sku := strings.TrimSpace(entry.SKU)
		if sku == "" {
			verrs = append(verrs, "BOM component SKU is required")
			continue
		}
		if bomSKUs[strings.ToUpper(sku)] {
			verrs = append(verrs, fmt.Sprintf("Duplicate BOM component: %s", sku))
			continue
		}
		bomSKUs[strings.ToUpper(sku)] = true

		if entry.Quantity <= 0 {
			verrs = append(verrs, fmt.Sprintf("BOM component %s quantity must be a positive integer", sku))
		}

		item, err := repos.ItemRepo().FindBySKU(ctx, sku)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			verrs = append(verrs, fmt.Sprintf("Unknown item SKU: %s", sku))
			continue
		}
		if entry.Quantity > 0 {
			plan.components = append(plan.components, plannedComponent{
				item:            *item,
				quantityPerUnit: decimal.NewFromInt(entry.Quantity),
			})
		}
	}

	// Routing
	referenced := make(map[string]bool)
	sequences := make(map[int]bool, len(req.Routing))
	if len(req.Routing) == 0 {
		verrs = append(verrs, "Routing must contain at least one step")
	}
	for _, step := range req.Routing {
		if sequences[step.Sequence] {
			verrs = append(verrs, fmt.Sprintf("Duplicate routing step sequence: %d", step.Sequence))
		}
		sequences[step.Sequence] = true

		if strings.TrimSpace(step.Instructions) == "" {
			verrs = append(verrs, fmt.Sprintf("Routing step %d instructions are required", step.Sequence))
		}

		for _, sku := range step.Components {
			key := strings.ToUpper(strings.TrimSpace(sku))
			if !bomSKUs[key] {
				verrs = append(verrs, fmt.Sprintf("Routing step %d references component not in BOM: %s", step.Sequence, sku))
				continue
			}
			referenced[key] = true
		}
	}

	// Coverage: every BOM component must be consumed by at least one
	// routing step.
	var missing []string
	for sku := range bomSKUs {
		if !referenced[sku] {
			missing = append(missing, sku)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		verrs = append(verrs, fmt.Sprintf("Missing usage for: %s", strings.Join(missing, ", ")))
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	plan.steps = req.Routing
	return plan, nil
}

// buildOrder assembles the order aggregate from a validated plan.
// Components are added in submitted order, steps by ascending sequence,
// so retries produce identical rows modulo generated IDs.
func (s *OrderService) buildOrder(req CreateOrderRequest, plan *creationPlan) (*production.ProductionOrder, error) {
	order, err := production.NewProductionOrder(
		plan.orderNumber,
		req.CustomerName,
		req.CreatedBy,
		plan.promised,
		plan.scheduledStart,
		plan.scheduledCompletion,
	)
	if err != nil {
		return nil, err
	}

	line, err := order.AddLine(plan.finishedItem.ID, plan.quantity)
	if err != nil {
		return nil, err
	}

	componentsBySKU := make(map[string]*production.OrderComponent, len(plan.components))
	for _, planned := range plan.components {
		component, err := line.AddComponent(planned.item.ID, planned.quantityPerUnit)
		if err != nil {
			return nil, err
		}
		componentsBySKU[planned.item.SKU] = component
	}

	steps := make([]RoutingStepEntry, len(plan.steps))
	copy(steps, plan.steps)
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Sequence < steps[j].Sequence
	})

	for _, entry := range steps {
		step, err := order.AddStep(entry.Sequence, entry.WorkCell, entry.Instructions)
		if err != nil {
			return nil, err
		}
		for _, sku := range entry.Components {
			component := componentsBySKU[strings.ToUpper(strings.TrimSpace(sku))]
			if _, err := step.AddUsage(component); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

func (s *OrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	// Event delivery is best effort; the transaction has committed.
	_ = s.publisher.Publish(ctx, events...)
}

// parseRequiredDate parses a YYYY-MM-DD date, appending a validation
// message when the value is missing or malformed.
func parseRequiredDate(label, value string, verrs *ValidationErrors) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		*verrs = append(*verrs, label+" is required")
		return time.Time{}, shared.ErrInvalidInput
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		*verrs = append(*verrs, fmt.Sprintf("%s %q is not a valid date", label, value))
		return time.Time{}, shared.ErrInvalidInput
	}
	return parsed, nil
}
