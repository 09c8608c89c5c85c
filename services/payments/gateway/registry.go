package gateway

import (
	"fmt"
	"sort"

	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/services/payments"
)

// Registry resolves the gateway adapter for a provider
type Registry struct {
	gateways        map[models.GatewayProvider]payments.PaymentGateway
	defaultProvider models.GatewayProvider
}

// NewRegistry fails when the default provider has no registered gateway
func NewRegistry(defaultProvider models.GatewayProvider, gateways ...payments.PaymentGateway) (*Registry, error) {
	r := &Registry{
		gateways:        make(map[models.GatewayProvider]payments.PaymentGateway, len(gateways)),
		defaultProvider: defaultProvider,
	}
	for _, gw := range gateways {
		r.gateways[gw.Provider()] = gw
	}
	if _, ok := r.gateways[defaultProvider]; !ok {
		return nil, fmt.Errorf("default gateway %q is not configured: %w", defaultProvider, models.ErrUnsupportedGateway)
	}
	return r, nil
}

// Get returns the default gateway when provider is empty
func (r *Registry) Get(provider models.GatewayProvider) (payments.PaymentGateway, error) {
	if provider == "" {
		provider = r.defaultProvider
	}
	gw, ok := r.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedGateway, provider)
	}
	return gw, nil
}

func (r *Registry) Default() models.GatewayProvider {
	return r.defaultProvider
}

func (r *Registry) Providers() []models.GatewayProvider {
	providers := make([]models.GatewayProvider, 0, len(r.gateways))
	for p := range r.gateways {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}
