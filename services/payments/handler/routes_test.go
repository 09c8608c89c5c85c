package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/ramein/internal/pkg/jwt"
	"github.com/piresc/ramein/internal/pkg/middleware"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/services/payments/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoutedEcho(t *testing.T) (*echo.Echo, *mocks.MockPaymentUC, *models.Config) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &models.Config{
		JWT:    models.JWTConfig{Secret: "secret", Issuer: "ramein"},
		APIKey: models.APIKeyConfig{Admin: "admin-key", EventService: "event-key"},
	}
	mockUC := mocks.NewMockPaymentUC(ctrl)

	e := echo.New()
	NewHandler(mockUC, cfg).RegisterRoutes(e, middleware.NewAPIKeyMiddleware(&cfg.APIKey), nil)
	return e, mockUC, cfg
}

func serve(e *echo.Echo, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_UserRoutesRequireJWT(t *testing.T) {
	e, mockUC, cfg := newRoutedEcho(t)
	userID := uuid.New()
	token, err := jwtpkg.GenerateToken(userID, "participant", cfg.JWT, time.Hour)
	require.NoError(t, err)

	rec := serve(e, http.MethodGet, "/api/v1/payments/transactions/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mockUC.EXPECT().ListByUser(gomock.Any(), userID).Return([]*models.Transaction{}, nil)
	rec = serve(e, http.MethodGet, "/api/v1/payments/transactions/me", map[string]string{
		echo.HeaderAuthorization: "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_InternalRoutesRequireAPIKey(t *testing.T) {
	e, mockUC, _ := newRoutedEcho(t)

	rec := serve(e, http.MethodGet, "/internal/payments/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/internal/payments/stats", map[string]string{middleware.APIKeyHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mockUC.EXPECT().GetStats(gomock.Any(), models.TransactionFilter{}).Return(&models.TransactionStats{}, nil).Times(2)
	for _, key := range []string{"admin-key", "event-key"} {
		rec = serve(e, http.MethodGet, "/internal/payments/stats", map[string]string{middleware.APIKeyHeader: key})
		assert.Equal(t, http.StatusOK, rec.Code, key)
	}
}

func TestRoutes_RefundIsAdminOnly(t *testing.T) {
	e, mockUC, _ := newRoutedEcho(t)

	rec := serve(e, http.MethodPost, "/internal/payments/transactions/RMN-1/refund",
		map[string]string{middleware.APIKeyHeader: "event-key"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mockUC.EXPECT().RefundTransaction(gomock.Any(), "RMN-1", "").
		Return(&models.Transaction{OrderID: "RMN-1", Status: models.PaymentStatusRefunded}, nil)
	rec = serve(e, http.MethodPost, "/internal/payments/transactions/RMN-1/refund",
		map[string]string{middleware.APIKeyHeader: "admin-key"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_MetricsExposed(t *testing.T) {
	e, _, _ := newRoutedEcho(t)

	rec := serve(e, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
