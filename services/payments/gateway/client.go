package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/piresc/ramein/internal/pkg/circuitbreaker"
	httpclient "github.com/piresc/ramein/internal/pkg/http"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/metrics"
	"github.com/piresc/ramein/internal/pkg/models"
)

const (
	opCreateCharge = "create_charge"
	opGetStatus    = "get_status"
	opCancel       = "cancel"

	maxErrorBody = 512
)

// newProviderClient builds an HTTP client whose breaker and request outcomes
// are exported as metrics labelled with the provider.
func newProviderClient(provider models.GatewayProvider, name, baseURL, authUser string, timeout time.Duration, l *logger.ZapLogger) *httpclient.Client {
	breaker := circuitbreaker.DefaultConfig("gateway-" + name)
	breaker.OnStateChange = func(name string, from, to circuitbreaker.State) {
		metrics.BreakerState(name, int(to))
	}

	return httpclient.NewClient(httpclient.Config{
		Name:          name,
		BaseURL:       baseURL,
		Timeout:       timeout,
		BasicAuthUser: authUser,
		Breaker:       breaker,
		Observer: func(operation string, status int, err error, elapsed time.Duration) {
			metrics.GatewayRequest(string(provider), operation, status, elapsed)
		},
	}, l)
}

// toGatewayError keeps the upstream status and a bounded slice of the body
func toGatewayError(provider models.GatewayProvider, operation string, err error) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		body := string(httpErr.Body)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &models.GatewayError{
			Provider:   provider,
			Operation:  operation,
			StatusCode: httpErr.StatusCode,
			Body:       body,
		}
	}
	return &models.GatewayError{Provider: provider, Operation: operation, Err: err}
}

func decodeError(provider models.GatewayProvider, operation string, err error) error {
	return &models.GatewayError{
		Provider:  provider,
		Operation: operation,
		Err:       fmt.Errorf("failed to decode response: %w", err),
	}
}
