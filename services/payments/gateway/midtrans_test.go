package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test"

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestMidtrans(t *testing.T, handler http.HandlerFunc) *MidtransGateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gw := NewMidtransGateway(
		models.MidtransConfig{ServerKey: testServerKey, SnapBaseURL: server.URL, APIBaseURL: server.URL},
		models.PaymentConfig{InvoiceDurationMins: 60, GatewayTimeout: 5},
		nil,
	)
	gw.now = func() time.Time { return testNow }
	return gw
}

func testChargeRequest() models.ChargeRequest {
	return models.ChargeRequest{
		OrderID:     "RMN-1772359200000-A1B2C3",
		Amount:      150000,
		AdminFee:    3000,
		TotalAmount: 153000,
		Event:       &models.Event{ID: uuid.New(), Title: "Kajian Akbar Ramadhan", Price: 150000},
		User:        &models.User{ID: uuid.New(), FullName: "Sari Wulandari", Email: "sari@example.com", Phone: "+6281234567890"},
	}
}

func TestMidtrans_CreateCharge(t *testing.T) {
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, testServerKey, user)

		var body midtransSnapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "RMN-1772359200000-A1B2C3", body.TransactionDetails.OrderID)
		assert.Equal(t, int64(153000), body.TransactionDetails.GrossAmount)
		require.Len(t, body.ItemDetails, 2)
		assert.Equal(t, int64(3000), body.ItemDetails[1].Price)
		assert.Equal(t, "sari@example.com", body.CustomerDetails.Email)
		require.NotNil(t, body.Expiry)
		assert.Equal(t, 60, body.Expiry.Duration)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"snap-token-1","redirect_url":"https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token-1"}`))
	})

	result, err := gw.CreateCharge(context.Background(), testChargeRequest())

	require.NoError(t, err)
	assert.Equal(t, "snap-token-1", result.ExternalID)
	assert.Contains(t, result.PaymentURL, "snap-token-1")
	require.NotNil(t, result.ExpiresAt)
	assert.Equal(t, testNow.Add(time.Hour), *result.ExpiresAt)
	assert.Contains(t, string(result.Raw), "snap-token-1")
}

func TestMidtrans_CreateCharge_NotRetried(t *testing.T) {
	var calls int32
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error_messages":["Sorry, we encountered internal server error"]}`))
	})

	_, err := gw.CreateCharge(context.Background(), testChargeRequest())

	var gwErr *models.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, models.GatewayMidtrans, gwErr.Provider)
	assert.Equal(t, opCreateCharge, gwErr.Operation)
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	assert.Contains(t, gwErr.Body, "internal server error")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMidtrans_GetStatus(t *testing.T) {
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/RMN-1/status", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"status_code": "200",
			"transaction_id": "mid-tx-1",
			"order_id": "RMN-1",
			"gross_amount": "153000.00",
			"payment_type": "bank_transfer",
			"transaction_status": "settlement",
			"fraud_status": "accept",
			"settlement_time": "2026-03-01 17:00:00"
		}`))
	})

	n, err := gw.GetStatus(context.Background(), &models.Transaction{OrderID: "RMN-1"})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, n.Status)
	assert.True(t, n.Recognized)
	assert.Equal(t, "bank_transfer", n.PaymentMethod)
	require.NotNil(t, n.PaidAt)
	assert.Equal(t, testNow, *n.PaidAt)
}

func TestMidtrans_GetStatus_UnknownOrderIsPending(t *testing.T) {
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code":"404","status_message":"Transaction doesn't exist."}`))
	})

	n, err := gw.GetStatus(context.Background(), &models.Transaction{OrderID: "RMN-2"})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, n.Status)
	assert.Equal(t, "RMN-2", n.OrderID)
}

func TestMidtrans_GetStatus_UpstreamError(t *testing.T) {
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message":"Unknown Merchant server_key/id"}`))
	})

	_, err := gw.GetStatus(context.Background(), &models.Transaction{OrderID: "RMN-3"})

	var gwErr *models.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
}

func TestMidtrans_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		httpCode int
		body     string
		wantErr  bool
	}{
		{name: "cancelled", httpCode: http.StatusOK, body: `{"status_code":"200","transaction_status":"cancel"}`},
		{name: "already final", httpCode: http.StatusOK, body: `{"status_code":"412","status_message":"Merchant cannot modify the status of the transaction"}`},
		{name: "unknown order", httpCode: http.StatusNotFound, body: `{"status_code":"404"}`},
		{name: "bad request", httpCode: http.StatusBadRequest, body: `{}`},
		{name: "server error", httpCode: http.StatusBadGateway, body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/RMN-1/cancel", r.URL.Path)
				w.WriteHeader(tt.httpCode)
				_, _ = w.Write([]byte(tt.body))
			})

			err := gw.Cancel(context.Background(), &models.Transaction{OrderID: "RMN-1"})
			if tt.wantErr {
				var gwErr *models.GatewayError
				assert.True(t, errors.As(err, &gwErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMidtrans_UpstreamUnavailableIsSingleCall(t *testing.T) {
	var calls int32
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := gw.Cancel(context.Background(), &models.Transaction{OrderID: "RMN-1"})

	var gwErr *models.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusServiceUnavailable, gwErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = gw.GetStatus(context.Background(), &models.Transaction{OrderID: "RMN-1"})

	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func midtransNotification(t *testing.T, status, fraud, signature string) []byte {
	body := map[string]string{
		"order_id":           "RMN-1",
		"status_code":        "200",
		"gross_amount":       "153000.00",
		"transaction_status": status,
		"fraud_status":       fraud,
		"transaction_id":     "mid-tx-1",
		"payment_type":       "qris",
		"signature_key":      signature,
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}

func TestMidtrans_ParseNotification(t *testing.T) {
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("notification parsing must not call the gateway")
	})
	valid := midtransSignature("RMN-1", "200", "153000.00", testServerKey)

	n, err := gw.ParseNotification(http.Header{}, midtransNotification(t, "settlement", "accept", valid))
	require.NoError(t, err)
	assert.Equal(t, "RMN-1", n.OrderID)
	assert.Equal(t, models.PaymentStatusPaid, n.Status)
	assert.Equal(t, "qris", n.PaymentMethod)
	assert.NotEmpty(t, n.Raw)

	_, err = gw.ParseNotification(http.Header{}, midtransNotification(t, "settlement", "accept", "deadbeef"))
	assert.ErrorIs(t, err, models.ErrSignatureInvalid)

	_, err = gw.ParseNotification(http.Header{}, midtransNotification(t, "settlement", "accept", ""))
	assert.ErrorIs(t, err, models.ErrSignatureInvalid)

	_, err = gw.ParseNotification(http.Header{}, []byte(`{not json`))
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestMidtrans_ParseNotification_UnknownStatusFallsBack(t *testing.T) {
	gw := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {})
	valid := midtransSignature("RMN-1", "200", "153000.00", testServerKey)

	n, err := gw.ParseNotification(http.Header{}, midtransNotification(t, "on_hold", "", valid))

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, n.Status)
	assert.False(t, n.Recognized)
	assert.Equal(t, "on_hold", n.RawStatus)
}

func TestMapMidtransStatus(t *testing.T) {
	tests := []struct {
		status, fraud string
		want          models.PaymentStatus
		recognized    bool
	}{
		{"capture", "accept", models.PaymentStatusPaid, true},
		{"capture", "challenge", models.PaymentStatusPending, true},
		{"capture", "deny", models.PaymentStatusFailed, true},
		{"settlement", "", models.PaymentStatusPaid, true},
		{"pending", "", models.PaymentStatusPending, true},
		{"deny", "", models.PaymentStatusFailed, true},
		{"cancel", "", models.PaymentStatusFailed, true},
		{"failure", "", models.PaymentStatusFailed, true},
		{"expire", "", models.PaymentStatusExpired, true},
		{"refund", "", models.PaymentStatusRefunded, true},
		{"partial_refund", "", models.PaymentStatusRefunded, true},
		{"chargeback", "", models.PaymentStatusRefunded, true},
		{"something_new", "", models.PaymentStatusPending, false},
		{"capture", "weird", models.PaymentStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			got, recognized := mapMidtransStatus(tt.status, tt.fraud)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.recognized, recognized)
		})
	}
}

func TestMidtransSignature(t *testing.T) {
	sig := midtransSignature("RMN-1", "200", "153000.00", testServerKey)
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, midtransSignature("RMN-1", "200", "153000.00", testServerKey))
	assert.NotEqual(t, sig, midtransSignature("RMN-1", "201", "153000.00", testServerKey))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "Kaj", truncate("Kajian", 3))
}
