package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "coffeemesh/internal/domain/order"
	"coffeemesh/internal/infrastructure/persistence/memory"
	"coffeemesh/internal/interfaces/http/handler"
	"coffeemesh/internal/interfaces/http/router"
	"coffeemesh/pkg/logger"
)

type MockPaymentsGateway struct {
	mock.Mock
}

func (m *MockPaymentsGateway) Charge(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockKitchenGateway struct {
	mock.Mock
}

func (m *MockKitchenGateway) Schedule(ctx context.Context, items []domain.OrderItem) (string, error) {
	args := m.Called(ctx, items)
	return args.String(0), args.Error(1)
}

func (m *MockKitchenGateway) CancelSchedule(ctx context.Context, scheduleID string, items []domain.OrderItem) error {
	args := m.Called(ctx, scheduleID, items)
	return args.Error(0)
}

func newTestRouter() (*gin.Engine, *MockKitchenGateway, *MockPaymentsGateway) {
	gin.SetMode(gin.TestMode)

	kitchen := new(MockKitchenGateway)
	payments := new(MockPaymentsGateway)
	repo := memory.NewOrderRepository()
	orderHandler := handler.NewOrderHandler(memory.BeginFunc(repo), kitchen, payments, logger.NewNop())

	engine := gin.New()
	router.RegisterOrderRoutes(engine, orderHandler)
	return engine, kitchen, payments
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type orderBody struct {
	ID         string `json:"id"`
	Created    string `json:"created"`
	Status     string `json:"status"`
	ScheduleID string `json:"schedule_id"`
	Items      []struct {
		ID       string `json:"id"`
		Product  string `json:"product"`
		Size     string `json:"size"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func decodeOrder(t *testing.T, w *httptest.ResponseRecorder) orderBody {
	t.Helper()
	var body orderBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const cappuccinoPayload = `{"items": [{"product": "cappuccino", "size": "medium", "quantity": 1}]}`

func TestOrderLifecycle_PlacePayCancel(t *testing.T) {
	engine, kitchen, payments := newTestRouter()

	// Place: order bắt đầu ở trạng thái created với id và created timestamp.
	w := doRequest(engine, http.MethodPost, "/orders", cappuccinoPayload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decodeOrder(t, w)
	assert.NotEmpty(t, placed.ID)
	assert.NotEmpty(t, placed.Created)
	assert.Equal(t, "created", placed.Status)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "cappuccino", placed.Items[0].Product)

	// Pay: charge rồi schedule, order chuyển sang progress kèm schedule id.
	payments.On("Charge", mock.Anything, placed.ID).Return(nil)
	kitchen.On("Schedule", mock.Anything, mock.Anything).Return("schedule-1", nil)

	w = doRequest(engine, http.MethodPost, "/orders/"+placed.ID+"/pay", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decodeOrder(t, w)
	assert.Equal(t, "progress", paid.Status)
	assert.Equal(t, "schedule-1", paid.ScheduleID)

	// Cancel: order đang progress nên huỷ được.
	kitchen.On("CancelSchedule", mock.Anything, "schedule-1", mock.Anything).Return(nil)

	w = doRequest(engine, http.MethodPost, "/orders/"+placed.ID+"/cancel", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := decodeOrder(t, w)
	assert.Equal(t, "cancelled", cancelled.Status)

	payments.AssertExpectations(t)
	kitchen.AssertExpectations(t)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	engine, _, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/orders", `{"items": []}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	engine, _, _ := newTestRouter()

	w := doRequest(engine, http.MethodGet, "/orders/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrder_NotFound(t *testing.T) {
	engine, _, _ := newTestRouter()

	w := doRequest(engine, http.MethodPut, "/orders/missing", cappuccinoPayload)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayOrder_NotFound(t *testing.T) {
	engine, _, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/orders/missing/pay", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder_NotFound(t *testing.T) {
	engine, _, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/orders/missing/cancel", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder_NotInProgress(t *testing.T) {
	engine, kitchen, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/orders", cappuccinoPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	placed := decodeOrder(t, w)

	// Order mới tạo chưa progress, cancel phải bị từ chối.
	w = doRequest(engine, http.MethodPost, "/orders/"+placed.ID+"/cancel", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	kitchen.AssertNotCalled(t, "CancelSchedule", mock.Anything, mock.Anything, mock.Anything)

	w = doRequest(engine, http.MethodGet, "/orders/"+placed.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "created", decodeOrder(t, w).Status)
}

func TestPayOrder_ChargeFails(t *testing.T) {
	engine, kitchen, payments := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/orders", cappuccinoPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	placed := decodeOrder(t, w)

	payments.On("Charge", mock.Anything, placed.ID).Return(errors.New("payments api status 500"))

	w = doRequest(engine, http.MethodPost, "/orders/"+placed.ID+"/pay", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	kitchen.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
}

func TestUpdateOrder_ReplacesItems(t *testing.T) {
	engine, _, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/orders", cappuccinoPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	placed := decodeOrder(t, w)

	w = doRequest(engine, http.MethodPut, "/orders/"+placed.ID,
		`{"items": [{"product": "espresso", "size": "small", "quantity": 2}, {"product": "latte", "size": "big", "quantity": 1}]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeOrder(t, w)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, "espresso", updated.Items[0].Product)
	assert.Equal(t, "latte", updated.Items[1].Product)
}

func TestDeleteOrder(t *testing.T) {
	engine, _, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/orders", cappuccinoPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	placed := decodeOrder(t, w)

	w = doRequest(engine, http.MethodDelete, "/orders/"+placed.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(engine, http.MethodGet, "/orders/"+placed.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrders_CancelledFilterAndLimit(t *testing.T) {
	engine, kitchen, payments := newTestRouter()

	var ids []string
	for i := 0; i < 3; i++ {
		w := doRequest(engine, http.MethodPost, "/orders", cappuccinoPayload)
		require.Equal(t, http.StatusCreated, w.Code)
		ids = append(ids, decodeOrder(t, w).ID)
	}

	// Đưa order đầu tiên qua pay → cancel để có status cancelled.
	payments.On("Charge", mock.Anything, ids[0]).Return(nil)
	kitchen.On("Schedule", mock.Anything, mock.Anything).Return("schedule-1", nil)
	kitchen.On("CancelSchedule", mock.Anything, "schedule-1", mock.Anything).Return(nil)
	require.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/orders/"+ids[0]+"/pay", "").Code)
	require.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/orders/"+ids[0]+"/cancel", "").Code)

	var listBody struct {
		Orders []orderBody `json:"orders"`
	}

	w := doRequest(engine, http.MethodGet, "/orders?cancelled=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listBody))
	require.Len(t, listBody.Orders, 1)
	assert.Equal(t, ids[0], listBody.Orders[0].ID)

	w = doRequest(engine, http.MethodGet, "/orders?cancelled=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listBody))
	assert.Len(t, listBody.Orders, 2)

	w = doRequest(engine, http.MethodGet, "/orders?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listBody))
	assert.Len(t, listBody.Orders, 2)

	w = doRequest(engine, http.MethodGet, "/orders?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
