package production

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(t *testing.T) *ProductionOrder {
	t.Helper()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	completion := start.AddDate(0, 0, 14)
	promised := completion.AddDate(0, 0, 5)
	order, err := NewProductionOrder("MO-1001", "Acme Corp", "Pat", promised, start, completion)
	require.NoError(t, err)
	return order
}

func TestNewProductionOrder(t *testing.T) {
	order := testOrder(t)

	assert.Equal(t, "MO-1001", order.OrderNumber)
	assert.Equal(t, OrderStatusScheduled, order.Status)
	assert.True(t, order.IsActive())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
}

func TestNewProductionOrder_ScheduleValidation(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	completion := start.AddDate(0, 0, 14)
	promised := completion.AddDate(0, 0, 5)

	// Start after completion.
	_, err := NewProductionOrder("MO-1", "Acme", "Pat", promised, completion.AddDate(0, 0, 1), completion)
	assert.Error(t, err)

	// Promised before completion.
	_, err = NewProductionOrder("MO-1", "Acme", "Pat", completion.AddDate(0, 0, -1), start, completion)
	assert.Error(t, err)

	// Promised equal to completion is allowed.
	_, err = NewProductionOrder("MO-1", "Acme", "Pat", completion, start, completion)
	assert.NoError(t, err)
}

func TestOrderLine_AddComponent(t *testing.T) {
	order := testOrder(t)
	line, err := order.AddLine(uuid.New(), decimal.NewFromInt(5))
	require.NoError(t, err)

	itemID := uuid.New()
	component, err := line.AddComponent(itemID, decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, itemID, component.ItemID)

	// Per-unit quantity times line quantity.
	assert.True(t, decimal.NewFromInt(10).Equal(component.RequiredFor(line)))

	// Same item twice is rejected.
	_, err = line.AddComponent(itemID, decimal.NewFromInt(1))
	assert.Error(t, err)

	// Non-positive quantity is rejected.
	_, err = line.AddComponent(uuid.New(), decimal.Zero)
	assert.Error(t, err)
}

func TestOrderLine_ScheduleWindowChecks(t *testing.T) {
	// The date-window rules are enforced by the database too; the
	// schema carries named CHECK constraints declared on the entity.
	typ := reflect.TypeOf(OrderLine{})

	promised, ok := typ.FieldByName("PromisedDate")
	require.True(t, ok)
	assert.Contains(t, promised.Tag.Get("gorm"), "check:chk_order_lines_promise_window")
	assert.Contains(t, promised.Tag.Get("gorm"), "promised_date >= scheduled_completion_date")

	start, ok := typ.FieldByName("ScheduledStartDate")
	require.True(t, ok)
	assert.Contains(t, start.Tag.Get("gorm"), "check:chk_order_lines_schedule_window")
	assert.Contains(t, start.Tag.Get("gorm"), "scheduled_start_date <= scheduled_completion_date")
}

func TestProductionOrder_AddStep(t *testing.T) {
	order := testOrder(t)

	_, err := order.AddStep(20, "Assembly", "Bolt together")
	require.NoError(t, err)
	_, err = order.AddStep(10, "Welding", "Weld frame")
	require.NoError(t, err)

	// Duplicate sequence is rejected.
	_, err = order.AddStep(10, "Paint", "Paint it")
	assert.Error(t, err)

	// Empty instructions are rejected.
	_, err = order.AddStep(30, "Paint", "   ")
	assert.Error(t, err)

	steps := order.SortedSteps()
	require.Len(t, steps, 2)
	assert.Equal(t, 10, steps[0].Sequence)
	assert.Equal(t, 20, steps[1].Sequence)
}

func TestRoutingStep_AddUsage(t *testing.T) {
	order := testOrder(t)
	line, err := order.AddLine(uuid.New(), decimal.NewFromInt(3))
	require.NoError(t, err)
	component, err := line.AddComponent(uuid.New(), decimal.NewFromInt(4))
	require.NoError(t, err)

	step, err := order.AddStep(10, "Welding", "Weld frame")
	require.NoError(t, err)

	usage, err := step.AddUsage(component)
	require.NoError(t, err)
	assert.Equal(t, component.ID, usage.OrderComponentID)
	assert.False(t, usage.HasLiveConsumption())

	_, err = step.AddUsage(component)
	assert.Error(t, err)
}

func TestRoutingStep_CompletionToggle(t *testing.T) {
	order := testOrder(t)
	step, err := order.AddStep(10, "Welding", "Weld frame")
	require.NoError(t, err)

	at := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	step.MarkCompleted(at)
	assert.True(t, step.Completed)
	require.NotNil(t, step.CompletedAt)
	assert.Equal(t, at, *step.CompletedAt)

	step.MarkNotCompleted()
	assert.False(t, step.Completed)
	assert.Nil(t, step.CompletedAt)
}

func TestProductionOrder_RoutingProgress(t *testing.T) {
	order := testOrder(t)
	assert.Nil(t, order.RoutingProgress())

	stepA, err := order.AddStep(10, "Welding", "Weld frame")
	require.NoError(t, err)
	_, err = order.AddStep(20, "Assembly", "Bolt together")
	require.NoError(t, err)

	progress := order.RoutingProgress()
	require.NotNil(t, progress)
	assert.InDelta(t, 0.0, *progress, 0.001)

	stepA.MarkCompleted(time.Now())
	progress = order.RoutingProgress()
	require.NotNil(t, progress)
	assert.InDelta(t, 0.5, *progress, 0.001)
}

func TestProductionOrder_MarkWaitingMaterial(t *testing.T) {
	order := testOrder(t)
	order.MarkWaitingMaterial()
	assert.Equal(t, OrderStatusWaitingMaterial, order.Status)
	assert.True(t, order.IsActive())
}

func TestNewReservation(t *testing.T) {
	lineID := uuid.New()
	itemID := uuid.New()

	reservation, err := NewReservation(lineID, itemID, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, lineID, reservation.OrderLineID)
	assert.Equal(t, itemID, reservation.ItemID)

	_, err = NewReservation(lineID, itemID, decimal.Zero)
	assert.Error(t, err)

	_, err = NewReservation(lineID, itemID, decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestNewRoutingStepConsumption(t *testing.T) {
	consumption, err := NewRoutingStepConsumption(uuid.New(), uuid.New(), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(consumption.Quantity))

	_, err = NewRoutingStepConsumption(uuid.New(), uuid.New(), decimal.Zero)
	assert.Error(t, err)
}

func TestOrderStatus(t *testing.T) {
	assert.True(t, OrderStatusScheduled.IsValid())
	assert.True(t, OrderStatusWaitingMaterial.IsValid())
	assert.False(t, OrderStatus("UNKNOWN").IsValid())

	assert.True(t, OrderStatusScheduled.IsActive())
	assert.True(t, OrderStatusWaitingMaterial.IsActive())
	assert.False(t, OrderStatusClosed.IsActive())
	assert.True(t, OrderStatusClosed.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}
