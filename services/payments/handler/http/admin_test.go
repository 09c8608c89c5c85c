package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/services/payments/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentHandler_ListTransactions_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)
	eventID := uuid.New()

	mockUC.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.TransactionFilter) (*models.TransactionPage, error) {
			assert.Equal(t, models.PaymentStatusPaid, f.Status)
			assert.Equal(t, models.GatewayMidtrans, f.Provider)
			assert.Equal(t, eventID, f.EventID)
			require.NotNil(t, f.From)
			assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), f.From.UTC())
			assert.Equal(t, 2, f.Page)
			assert.Equal(t, 50, f.Limit)
			return &models.TransactionPage{Total: 0, Page: 2, Limit: 50, Transactions: []*models.Transaction{}}, nil
		})

	e := echo.New()
	target := "/internal/payments/transactions?status=paid&provider=Midtrans&event_id=" + eventID.String() +
		"&from=2026-03-01T00:00:00Z&page=2&limit=50"
	recorder := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), recorder)

	assert.NoError(t, handler.ListTransactions(c))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPaymentHandler_ListTransactions_InvalidFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewPaymentHandler(mocks.NewMockPaymentUC(ctrl))

	for _, query := range []string{
		"status=settled",
		"user_id=abc",
		"event_id=abc",
		"from=yesterday",
		"to=2026-13-01",
		"page=one",
		"limit=all",
	} {
		t.Run(query, func(t *testing.T) {
			e := echo.New()
			recorder := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?"+query, nil), recorder)

			assert.NoError(t, handler.ListTransactions(c))
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestPaymentHandler_GetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)

	mockUC.EXPECT().GetStats(gomock.Any(), models.TransactionFilter{}).Return(&models.TransactionStats{
		Total:         4,
		CountByStatus: map[models.PaymentStatus]int64{models.PaymentStatusPaid: 3, models.PaymentStatusPending: 1},
		TotalRevenue:  459000,
		TotalAdminFee: 9000,
	}, nil)

	c, recorder := newContext(http.MethodGet, "/internal/payments/stats", nil, uuid.Nil)

	assert.NoError(t, handler.GetStats(c))
	assert.Equal(t, http.StatusOK, recorder.Code)
	data := decodeBody(t, recorder)["data"].(map[string]interface{})
	assert.Equal(t, float64(459000), data["total_revenue"])
}

func TestPaymentHandler_GetTransactionByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)
	id := uuid.New()

	mockUC.EXPECT().GetByID(gomock.Any(), id).Return(nil, models.ErrTransactionNotFound)

	c, recorder := newContext(http.MethodGet, "/", nil, uuid.Nil)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	assert.NoError(t, handler.GetTransactionByID(c))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	c, recorder = newContext(http.MethodGet, "/", nil, uuid.Nil)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	assert.NoError(t, handler.GetTransactionByID(c))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPaymentHandler_ListByUserAndEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)
	userID, eventID := uuid.New(), uuid.New()

	mockUC.EXPECT().ListByUser(gomock.Any(), userID).Return([]*models.Transaction{}, nil)
	mockUC.EXPECT().ListByEvent(gomock.Any(), eventID).Return([]*models.Transaction{{OrderID: "RMN-1"}}, nil)

	c, recorder := newContext(http.MethodGet, "/", nil, uuid.Nil)
	c.SetParamNames("userId")
	c.SetParamValues(userID.String())
	assert.NoError(t, handler.ListUserTransactions(c))
	assert.Equal(t, http.StatusOK, recorder.Code)

	c, recorder = newContext(http.MethodGet, "/", nil, uuid.Nil)
	c.SetParamNames("eventId")
	c.SetParamValues(eventID.String())
	assert.NoError(t, handler.ListEventTransactions(c))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPaymentHandler_AdminCancelAndRefund(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)

	mockUC.EXPECT().CancelTransaction(gomock.Any(), "RMN-1", uuid.Nil).
		Return(&models.Transaction{OrderID: "RMN-1", Status: models.PaymentStatusCancelled}, nil)
	mockUC.EXPECT().RefundTransaction(gomock.Any(), "RMN-2", "event cancelled").
		Return(&models.Transaction{OrderID: "RMN-2", Status: models.PaymentStatusRefunded}, nil)
	mockUC.EXPECT().RefundTransaction(gomock.Any(), "RMN-3", "").
		Return(nil, models.NewInvalidStateError("RMN-3", models.PaymentStatusPending, "only paid transactions can be refunded"))

	c, recorder := newContext(http.MethodPost, "/", nil, uuid.Nil)
	c.Set("caller", "admin")
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-1")
	assert.NoError(t, handler.AdminCancelTransaction(c))
	assert.Equal(t, http.StatusOK, recorder.Code)

	c, recorder = newContext(http.MethodPost, "/", []byte(`{"reason":"  event cancelled "}`), uuid.Nil)
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-2")
	assert.NoError(t, handler.RefundTransaction(c))
	assert.Equal(t, http.StatusOK, recorder.Code)

	c, recorder = newContext(http.MethodPost, "/", []byte(`{}`), uuid.Nil)
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-3")
	assert.NoError(t, handler.RefundTransaction(c))
	assert.Equal(t, http.StatusConflict, recorder.Code)
}
