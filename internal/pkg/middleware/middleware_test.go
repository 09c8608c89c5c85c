package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/ramein/internal/pkg/jwt"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestPanicRecoveryWithZapMiddleware(t *testing.T) {
	var logBuffer bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(&logBuffer),
		zapcore.DebugLevel,
	)
	zapLogger := &logger.ZapLogger{Logger: zap.New(core)}

	e := echo.New()
	e.Use(PanicRecoveryWithZapMiddleware(zapLogger))
	e.GET("/boom", func(c echo.Context) error {
		panic("gateway client exploded")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, logBuffer.String(), "Panic recovered")
	assert.Contains(t, logBuffer.String(), "gateway client exploded")
}

func TestAPIKeyMiddleware(t *testing.T) {
	m := NewAPIKeyMiddleware(&models.APIKeyConfig{Admin: "admin-key", EventService: ""})

	tests := []struct {
		name       string
		key        string
		allowed    []string
		wantStatus int
	}{
		{"valid admin key", "admin-key", []string{"admin"}, http.StatusOK},
		{"missing key", "", []string{"admin"}, http.StatusUnauthorized},
		{"wrong key", "nope", []string{"admin"}, http.StatusUnauthorized},
		{"caller not allowed", "admin-key", []string{"event-service"}, http.StatusUnauthorized},
		{"empty configured key never matches", "", []string{"event-service"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/internal", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := m.ValidateAPIKey(tt.allowed...)(okHandler)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := models.JWTConfig{Secret: "secret", Issuer: "ramein"}
	userID := uuid.New()
	token, err := jwtpkg.GenerateToken(userID, "participant", cfg, time.Hour)
	require.NoError(t, err)

	t.Run("valid token sets user id", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := JWTAuthMiddleware(cfg)(okHandler)(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, c.Get("user_id"))
		assert.Equal(t, "participant", c.Get("user_role"))
	})

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + token,
		"bad token":      "Bearer abc",
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := JWTAuthMiddleware(cfg)(okHandler)(c)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, c.Get("user_id"))
		})
	}
}
