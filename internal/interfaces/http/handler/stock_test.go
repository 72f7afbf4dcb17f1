package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	stockapp "github.com/mfgops/backend/internal/application/stock"
	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/production"
	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/mfgops/backend/internal/domain/stock"
	"github.com/mfgops/backend/internal/interfaces/http/dto"
)

type mockMovementRepo struct {
	mock.Mock
}

func (m *mockMovementRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Movement), args.Error(1)
}

func (m *mockMovementRepo) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	args := m.Called(ctx, itemID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Movement), args.Error(1)
}

func (m *mockMovementRepo) Create(ctx context.Context, movement *stock.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *mockMovementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockMovementRepo) SumQuantityByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockMovementRepo) SumQuantityByItemAtLocation(ctx context.Context, itemID, locationID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID, locationID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockMovementRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockReservationRepo struct {
	mock.Mock
}

func (m *mockReservationRepo) FindByLine(ctx context.Context, orderLineID uuid.UUID) ([]production.Reservation, error) {
	args := m.Called(ctx, orderLineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.Reservation), args.Error(1)
}

func (m *mockReservationRepo) FindByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) (*production.Reservation, error) {
	args := m.Called(ctx, orderLineID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Reservation), args.Error(1)
}

func (m *mockReservationRepo) Create(ctx context.Context, reservation *production.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *mockReservationRepo) DeleteByLineAndItem(ctx context.Context, orderLineID, itemID uuid.UUID) error {
	args := m.Called(ctx, orderLineID, itemID)
	return args.Error(0)
}

func (m *mockReservationRepo) SumByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *mockItemRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *mockItemRepo) FindBySKUs(ctx context.Context, skus []string) ([]catalog.Item, error) {
	args := m.Called(ctx, skus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *mockItemRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *mockItemRepo) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockItemRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockLocationRepo struct {
	mock.Mock
}

func (m *mockLocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *mockLocationRepo) FindByName(ctx context.Context, name string) (*catalog.Location, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *mockLocationRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Location, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Location), args.Error(1)
}

func (m *mockLocationRepo) Save(ctx context.Context, location *catalog.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *mockLocationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type stockHandlerFixture struct {
	engine          *gin.Engine
	movementRepo    *mockMovementRepo
	reservationRepo *mockReservationRepo
	itemRepo        *mockItemRepo
	locationRepo    *mockLocationRepo
}

func newStockHandlerFixture() *stockHandlerFixture {
	f := &stockHandlerFixture{
		movementRepo:    new(mockMovementRepo),
		reservationRepo: new(mockReservationRepo),
		itemRepo:        new(mockItemRepo),
		locationRepo:    new(mockLocationRepo),
	}
	service := stockapp.NewStockService(f.movementRepo, f.reservationRepo, f.itemRepo, f.locationRepo)
	f.engine = gin.New()
	NewStockHandler(service).RegisterRoutes(f.engine.Group("/api/v1"))
	return f
}

func (f *stockHandlerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	f.engine.ServeHTTP(recorder, req)
	return recorder
}

func TestStockHandler_OnHand(t *testing.T) {
	f := newStockHandlerFixture()
	itemID := uuid.New()
	item, err := catalog.NewItem("FRAME-01", "Bike frame", "pcs")
	require.NoError(t, err)

	f.itemRepo.On("FindByID", mock.Anything, itemID).Return(item, nil)
	f.movementRepo.On("SumQuantityByItem", mock.Anything, itemID).Return(decimal.NewFromInt(120), nil)
	f.reservationRepo.On("SumByItem", mock.Anything, itemID).Return(decimal.NewFromInt(45), nil)

	recorder := f.do(t, http.MethodGet, "/api/v1/stock/items/"+itemID.String()+"/on-hand", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Success bool                     `json:"success"`
		Data    stockapp.OnHandResponse  `json:"data"`
		Error   *dto.ErrorInfo           `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, itemID, resp.Data.ItemID)
	assert.Equal(t, "120", resp.Data.OnHand)
	assert.Equal(t, "45", resp.Data.Reserved)
	assert.Equal(t, "75", resp.Data.Available)
}

func TestStockHandler_OnHand_UnknownItem(t *testing.T) {
	f := newStockHandlerFixture()
	itemID := uuid.New()

	f.itemRepo.On("FindByID", mock.Anything, itemID).Return(nil, shared.ErrNotFound)

	recorder := f.do(t, http.MethodGet, "/api/v1/stock/items/"+itemID.String()+"/on-hand", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestStockHandler_OnHand_InvalidID(t *testing.T) {
	f := newStockHandlerFixture()

	recorder := f.do(t, http.MethodGet, "/api/v1/stock/items/not-a-uuid/on-hand", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestStockHandler_OnHand_AtLocation(t *testing.T) {
	f := newStockHandlerFixture()
	itemID := uuid.New()
	locationID := uuid.New()

	f.movementRepo.On("SumQuantityByItemAtLocation", mock.Anything, itemID, locationID).
		Return(decimal.RequireFromString("-3.5"), nil)

	recorder := f.do(t, http.MethodGet,
		"/api/v1/stock/items/"+itemID.String()+"/on-hand?location="+locationID.String(), "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Data struct {
			OnHand string `json:"on_hand"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "-3.5", resp.Data.OnHand)
}

func TestStockHandler_Receive(t *testing.T) {
	f := newStockHandlerFixture()
	itemID := uuid.New()
	locationID := uuid.New()
	item, err := catalog.NewItem("TIRE-26", "26in tire", "pcs")
	require.NoError(t, err)
	location, err := catalog.NewLocation("RECEIVING")
	require.NoError(t, err)

	f.itemRepo.On("FindByID", mock.Anything, itemID).Return(item, nil)
	f.locationRepo.On("FindByID", mock.Anything, locationID).Return(location, nil)
	f.movementRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *stock.Movement) bool {
		return m.Type == stock.MovementTypeReceipt && m.Quantity.Equal(decimal.NewFromInt(50))
	})).Return(nil)

	body := `{"item_id":"` + itemID.String() + `","location_id":"` + locationID.String() + `","quantity":"50","person":"jdoe"}`
	recorder := f.do(t, http.MethodPost, "/api/v1/stock/receipts", body)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	f.movementRepo.AssertExpectations(t)
}

func TestStockHandler_RecordCount_NoDelta(t *testing.T) {
	f := newStockHandlerFixture()
	itemID := uuid.New()
	locationID := uuid.New()
	item, err := catalog.NewItem("SEAT-STD", "Standard seat", "pcs")
	require.NoError(t, err)
	location, err := catalog.NewLocation("FLOOR-A")
	require.NoError(t, err)

	f.itemRepo.On("FindByID", mock.Anything, itemID).Return(item, nil)
	f.locationRepo.On("FindByID", mock.Anything, locationID).Return(location, nil)
	f.movementRepo.On("SumQuantityByItemAtLocation", mock.Anything, itemID, locationID).
		Return(decimal.NewFromInt(30), nil)

	body := `{"item_id":"` + itemID.String() + `","location_id":"` + locationID.String() + `","counted":"30","person":"jdoe"}`
	recorder := f.do(t, http.MethodPost, "/api/v1/stock/counts", body)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Data struct {
			Changed bool `json:"changed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Changed)
	f.movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
