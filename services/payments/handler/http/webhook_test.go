package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/services/payments/mocks"
	"github.com/stretchr/testify/assert"
)

func webhookContext(provider string, body []byte) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhooks/"+provider, bytes.NewBuffer(body))
	request.Header.Set("X-Callback-Token", "callback-token")
	recorder := httptest.NewRecorder()
	c := e.NewContext(request, recorder)
	c.SetParamNames("provider")
	c.SetParamValues(provider)
	return c, recorder
}

func TestPaymentHandler_HandleWebhook(t *testing.T) {
	body := []byte(`{"external_id":"RMN-1","status":"PAID"}`)

	testCases := []struct {
		name       string
		provider   string
		result     *models.Transaction
		err        error
		wantStatus int
	}{
		{
			name:       "processed",
			provider:   "Xendit",
			result:     &models.Transaction{OrderID: "RMN-1", Status: models.PaymentStatusPaid},
			wantStatus: http.StatusOK,
		},
		{name: "invalid signature acknowledged", provider: "xendit", err: models.ErrSignatureInvalid, wantStatus: http.StatusOK},
		{name: "invalid payload", provider: "xendit", err: models.ErrInvalidPayload, wantStatus: http.StatusBadRequest},
		{name: "unknown provider", provider: "paypal", err: models.ErrUnsupportedGateway, wantStatus: http.StatusBadRequest},
		{name: "unknown order", provider: "xendit", err: models.ErrTransactionNotFound, wantStatus: http.StatusNotFound},
		{name: "version conflict", provider: "xendit", err: models.ErrVersionConflict, wantStatus: http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUC := mocks.NewMockPaymentUC(ctrl)
			handler := NewPaymentHandler(mockUC)

			provider := models.GatewayProvider("xendit")
			if tc.provider == "paypal" {
				provider = "paypal"
			}
			mockUC.EXPECT().
				HandleNotification(gomock.Any(), provider, gomock.Any(), body).
				DoAndReturn(func(_ context.Context, _ models.GatewayProvider, header http.Header, _ []byte) (*models.Transaction, error) {
					assert.Equal(t, "callback-token", header.Get("X-Callback-Token"))
					return tc.result, tc.err
				})

			c, recorder := webhookContext(tc.provider, body)

			assert.NoError(t, handler.HandleWebhook(c))
			assert.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestPaymentHandler_HandleWebhook_InvalidSignatureRevealsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentHandler(mockUC)

	mockUC.EXPECT().
		HandleNotification(gomock.Any(), models.GatewayMidtrans, gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("midtrans: %w", models.ErrSignatureInvalid))

	c, recorder := webhookContext("midtrans", []byte(`{"order_id":"RMN-1","signature_key":"forged"}`))

	assert.NoError(t, handler.HandleWebhook(c))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "signature")
	assert.NotContains(t, recorder.Body.String(), "RMN-1")
}
