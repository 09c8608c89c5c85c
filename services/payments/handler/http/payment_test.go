package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/services/payments/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string, body []byte, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	request := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	c := e.NewContext(request, recorder)
	if userID != uuid.Nil {
		c.Set("user_id", userID)
	}
	return c, recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestPaymentHandler_CreateTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)

	userID, eventID := uuid.New(), uuid.New()
	mockUC.EXPECT().
		CreateTransaction(gomock.Any(), userID, eventID, models.GatewayXendit).
		Return(&models.CreateTransactionResponse{
			Transaction: &models.Transaction{
				OrderID:    "RMN-1",
				Status:     models.PaymentStatusPending,
				PaymentURL: "https://checkout-staging.xendit.co/web/inv-1",
			},
		}, nil)

	body := []byte(`{"event_id":"` + eventID.String() + `","provider":"Xendit"}`)
	c, recorder := newContext(http.MethodPost, "/api/v1/payments/transactions", body, userID)

	err := handler.CreateTransaction(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	response := decodeBody(t, recorder)
	assert.Equal(t, true, response["success"])
	data := response["data"].(map[string]interface{})
	tx := data["transaction"].(map[string]interface{})
	assert.Equal(t, "RMN-1", tx["order_id"])
	assert.Equal(t, "PENDING", tx["status"])
}

func TestPaymentHandler_CreateTransaction_BadRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewPaymentHandler(mocks.NewMockPaymentUC(ctrl))

	testCases := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing event id", `{}`},
		{"invalid event id", `{"event_id":"abc"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, recorder := newContext(http.MethodPost, "/", []byte(tc.body), uuid.New())

			err := handler.CreateTransaction(c)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestPaymentHandler_CreateTransaction_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewPaymentHandler(mocks.NewMockPaymentUC(ctrl))
	c, recorder := newContext(http.MethodPost, "/", []byte(`{}`), uuid.Nil)

	err := handler.CreateTransaction(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestPaymentHandler_CreateTransaction_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"user not found", models.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"event not found", models.ErrEventNotFound, http.StatusNotFound, "event not found"},
		{"already registered", models.ErrAlreadyRegistered, http.StatusConflict, "already has an active"},
		{
			"pending transaction",
			models.NewInvalidStateError("RMN-1", models.PaymentStatusPending, "transaction RMN-1 for this event is still pending"),
			http.StatusConflict,
			"still pending",
		},
		{"rate limited", models.ErrRateLimited, http.StatusTooManyRequests, "too many"},
		{"unsupported gateway", models.ErrUnsupportedGateway, http.StatusBadRequest, "unsupported payment gateway"},
		{
			"gateway error",
			&models.GatewayError{Provider: models.GatewayMidtrans, Operation: "create_charge", StatusCode: 500, Body: "Sorry, we encountered internal server error"},
			http.StatusInternalServerError,
			"Payment gateway error: midtrans create_charge failed with status 500",
		},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUC := mocks.NewMockPaymentUC(ctrl)
			handler := NewPaymentHandler(mockUC)

			mockUC.EXPECT().CreateTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			body := []byte(`{"event_id":"` + uuid.New().String() + `"}`)
			c, recorder := newContext(http.MethodPost, "/", body, uuid.New())

			err := handler.CreateTransaction(c)

			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, recorder.Code)
			response := decodeBody(t, recorder)
			assert.Equal(t, false, response["success"])
			assert.Contains(t, response["error"], tc.wantError)
		})
	}
}

func TestPaymentHandler_GetTransaction_OwnerOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)

	owner := uuid.New()
	tx := &models.Transaction{OrderID: "RMN-1", UserID: owner, Status: models.PaymentStatusPaid}
	mockUC.EXPECT().GetByOrderID(gomock.Any(), "RMN-1").Return(tx, nil).Times(2)

	c, recorder := newContext(http.MethodGet, "/", nil, owner)
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-1")
	assert.NoError(t, handler.GetTransaction(c))
	assert.Equal(t, http.StatusOK, recorder.Code)

	c, recorder = newContext(http.MethodGet, "/", nil, uuid.New())
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-1")
	assert.NoError(t, handler.GetTransaction(c))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestPaymentHandler_CheckStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)

	owner := uuid.New()
	pending := &models.Transaction{OrderID: "RMN-1", UserID: owner, Status: models.PaymentStatusPending}
	paid := &models.Transaction{OrderID: "RMN-1", UserID: owner, Status: models.PaymentStatusPaid}

	mockUC.EXPECT().GetByOrderID(gomock.Any(), "RMN-1").Return(pending, nil)
	mockUC.EXPECT().CheckTransactionStatus(gomock.Any(), "RMN-1").Return(paid, nil)

	c, recorder := newContext(http.MethodGet, "/", nil, owner)
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-1")

	assert.NoError(t, handler.CheckStatus(c))
	assert.Equal(t, http.StatusOK, recorder.Code)
	data := decodeBody(t, recorder)["data"].(map[string]interface{})
	assert.Equal(t, "PAID", data["status"])
}

func TestPaymentHandler_CancelTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)
	userID := uuid.New()

	gomock.InOrder(
		mockUC.EXPECT().CancelTransaction(gomock.Any(), "RMN-1", userID).
			Return(&models.Transaction{OrderID: "RMN-1", Status: models.PaymentStatusCancelled}, nil),
		mockUC.EXPECT().CancelTransaction(gomock.Any(), "RMN-2", userID).
			Return(nil, models.NewInvalidStateError("RMN-2", models.PaymentStatusPaid, "transaction RMN-2 is already paid and cannot be cancelled")),
	)

	c, recorder := newContext(http.MethodPost, "/", nil, userID)
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-1")
	assert.NoError(t, handler.CancelTransaction(c))
	assert.Equal(t, http.StatusOK, recorder.Code)

	c, recorder = newContext(http.MethodPost, "/", nil, userID)
	c.SetParamNames("orderId")
	c.SetParamValues("RMN-2")
	assert.NoError(t, handler.CancelTransaction(c))
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, decodeBody(t, recorder)["error"], "already paid")
}

func TestPaymentHandler_MyTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)
	userID := uuid.New()

	mockUC.EXPECT().ListByUser(gomock.Any(), userID).
		Return([]*models.Transaction{{OrderID: "RMN-1"}, {OrderID: "RMN-2"}}, nil)

	c, recorder := newContext(http.MethodGet, "/", nil, userID)

	assert.NoError(t, handler.MyTransactions(c))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, decodeBody(t, recorder)["data"], 2)
}
