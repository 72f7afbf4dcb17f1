package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	args := m.Called(ctx, itemID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Movement), args.Error(1)
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *stock.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovementRepository) SumQuantityByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMovementRepository) SumQuantityByItemAtLocation(ctx context.Context, itemID, locationID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID, locationID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindByLine(ctx context.Context, orderLineID uuid.UUID) ([]production.Reservation, error) {
	args := m.Called(ctx, orderLineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) (*production.Reservation, error) {
	args := m.Called(ctx, orderLineID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *production.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) error {
	args := m.Called(ctx, orderLineID, itemID)
	return args.Error(0)
}

func (m *MockReservationRepository) SumByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKUs(ctx context.Context, skus []string) ([]catalog.Item, error) {
	args := m.Called(ctx, skus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) FindByName(ctx context.Context, name string) (*catalog.Location, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Location, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) Save(ctx context.Context, location *catalog.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type stockServiceFixture struct {
	movementRepo    *MockMovementRepository
	reservationRepo *MockReservationRepository
	itemRepo        *MockItemRepository
	locationRepo    *MockLocationRepository
	service         *StockService
}

func newStockServiceFixture() *stockServiceFixture {
	f := &stockServiceFixture{
		movementRepo:    new(MockMovementRepository),
		reservationRepo: new(MockReservationRepository),
		itemRepo:        new(MockItemRepository),
		locationRepo:    new(MockLocationRepository),
	}
	f.service = NewStockService(f.movementRepo, f.reservationRepo, f.itemRepo, f.locationRepo)
	return f
}

func testItem(t *testing.T, sku string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(sku, sku+" item", "pcs")
	require.NoError(t, err)
	return item
}

func testLocation(t *testing.T) *catalog.Location {
	t.Helper()
	location, err := catalog.NewLocation("Main store")
	require.NoError(t, err)
	return location
}

func TestStockService_OnHand(t *testing.T) {
	f := newStockServiceFixture()
	item := testItem(t, "FRAME")

	f.itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.movementRepo.On("SumQuantityByItem", mock.Anything, item.ID).Return(decimal.NewFromInt(25), nil)
	f.reservationRepo.On("SumByItem", mock.Anything, item.ID).Return(decimal.NewFromInt(10), nil)

	resp, err := f.service.OnHand(context.Background(), item.ID)

	require.NoError(t, err)
	assert.Equal(t, "25", resp.OnHand)
	assert.Equal(t, "10", resp.Reserved)
	assert.Equal(t, "15", resp.Available)
}

func TestStockService_OnHand_UnknownItem(t *testing.T) {
	f := newStockServiceFixture()
	itemID := uuid.New()

	f.itemRepo.On("FindByID", mock.Anything, itemID).Return(nil, shared.ErrNotFound)

	_, err := f.service.OnHand(context.Background(), itemID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.movementRepo.AssertNotCalled(t, "SumQuantityByItem", mock.Anything, mock.Anything)
}

func TestStockService_Receive(t *testing.T) {
	f := newStockServiceFixture()
	item := testItem(t, "FRAME")
	location := testLocation(t)

	f.itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.locationRepo.On("FindByID", mock.Anything, location.ID).Return(location, nil)

	var movement *stock.Movement
	f.movementRepo.On("Create", mock.Anything, mock.AnythingOfType("*stock.Movement")).
		Run(func(args mock.Arguments) { movement = args.Get(1).(*stock.Movement) }).
		Return(nil)

	resp, err := f.service.Receive(context.Background(), ReceiveStockRequest{
		ItemID:     item.ID,
		LocationID: location.ID,
		Quantity:   decimal.NewFromInt(40),
		Person:     "Lee",
		PONumber:   "PO-77",
	})

	require.NoError(t, err)
	assert.Equal(t, stock.MovementTypeReceipt.String(), resp.Type)
	assert.Equal(t, "40", resp.Quantity)
	require.NotNil(t, movement)
	assert.Equal(t, "Lee", movement.Person)
	assert.Equal(t, "PO-77", movement.PONumber)
	assert.True(t, movement.IsInbound())
}

func TestStockService_Receive_RejectsNonPositive(t *testing.T) {
	f := newStockServiceFixture()
	item := testItem(t, "FRAME")
	location := testLocation(t)

	f.itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.locationRepo.On("FindByID", mock.Anything, location.ID).Return(location, nil)

	_, err := f.service.Receive(context.Background(), ReceiveStockRequest{
		ItemID:     item.ID,
		LocationID: location.ID,
		Quantity:   decimal.NewFromInt(-3),
	})

	require.Error(t, err)
	f.movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStockService_Adjust_EmitsBelowMinimumAlert(t *testing.T) {
	f := newStockServiceFixture()
	item := testItem(t, "FRAME")
	require.NoError(t, item.SetMinStock(decimal.NewFromInt(10)))
	location := testLocation(t)

	bus := &capturingPublisher{}
	f.service.SetEventPublisher(bus)

	f.itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.locationRepo.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	f.movementRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.movementRepo.On("SumQuantityByItem", mock.Anything, item.ID).Return(decimal.NewFromInt(4), nil)

	_, err := f.service.Adjust(context.Background(), AdjustStockRequest{
		ItemID:     item.ID,
		LocationID: location.ID,
		Delta:      decimal.NewFromInt(-6),
		Person:     "Lee",
	})

	require.NoError(t, err)
	require.Len(t, bus.events, 1)
	alert, ok := bus.events[0].(*stock.StockBelowMinimumEvent)
	require.True(t, ok)
	assert.Equal(t, "FRAME", alert.SKU)
	assert.Equal(t, "4", alert.OnHand.String())
}

func TestStockService_RecordCount(t *testing.T) {
	f := newStockServiceFixture()
	item := testItem(t, "FRAME")
	location := testLocation(t)

	f.itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.locationRepo.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	f.movementRepo.On("SumQuantityByItemAtLocation", mock.Anything, item.ID, location.ID).Return(decimal.NewFromInt(12), nil)

	var movement *stock.Movement
	f.movementRepo.On("Create", mock.Anything, mock.AnythingOfType("*stock.Movement")).
		Run(func(args mock.Arguments) { movement = args.Get(1).(*stock.Movement) }).
		Return(nil)

	resp, err := f.service.RecordCount(context.Background(), RecordCountRequest{
		ItemID:     item.ID,
		LocationID: location.ID,
		Counted:    decimal.NewFromInt(15),
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, stock.MovementTypeCountGain.String(), resp.Type)
	require.NotNil(t, movement)
	assert.True(t, decimal.NewFromInt(3).Equal(movement.Quantity))
}

func TestStockService_RecordCount_MatchingLedgerBooksNothing(t *testing.T) {
	f := newStockServiceFixture()
	item := testItem(t, "FRAME")
	location := testLocation(t)

	f.itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	f.locationRepo.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	f.movementRepo.On("SumQuantityByItemAtLocation", mock.Anything, item.ID, location.ID).Return(decimal.NewFromInt(12), nil)

	resp, err := f.service.RecordCount(context.Background(), RecordCountRequest{
		ItemID:     item.ID,
		LocationID: location.ID,
		Counted:    decimal.NewFromInt(12),
	})

	require.NoError(t, err)
	assert.Nil(t, resp)
	f.movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
