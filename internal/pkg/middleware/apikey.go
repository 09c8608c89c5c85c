package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/internal/utils"
)

const (
	APIKeyHeader = "X-API-Key"
)

// APIKeyMiddleware guards internal routes with per-caller API keys
type APIKeyMiddleware struct {
	keys map[string]string
}

// NewAPIKeyMiddleware builds the key table from config; empty keys are never accepted
func NewAPIKeyMiddleware(cfg *models.APIKeyConfig) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		keys: map[string]string{
			"admin":         cfg.Admin,
			"event-service": cfg.EventService,
		},
	}
}

// ValidateAPIKey accepts requests whose X-API-Key belongs to one of the allowed callers
func (m *APIKeyMiddleware) ValidateAPIKey(allowedCallers ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get(APIKeyHeader)
			if apiKey == "" {
				return utils.UnauthorizedResponse(c, "API key is required")
			}

			for _, caller := range allowedCallers {
				expected := m.keys[caller]
				if expected != "" && subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) == 1 {
					c.Set("caller", caller)
					return next(c)
				}
			}

			return utils.UnauthorizedResponse(c, "Invalid API key")
		}
	}
}
