package payments

import (
	"context"
	"net/http"

	"github.com/piresc/ramein/internal/pkg/models"
)

// PaymentGateway is implemented once per external payment provider
// go:generate mockgen -destination=../mocks/mock_gateway.go -package=mocks github.com/piresc/ramein/services/payments PaymentGateway,GatewayResolver,EventPublisher
type PaymentGateway interface {
	Provider() models.GatewayProvider
	CreateCharge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error)
	GetStatus(ctx context.Context, tx *models.Transaction) (*models.GatewayNotification, error)
	// Cancel treats "already final" and "unknown order" answers as success
	Cancel(ctx context.Context, tx *models.Transaction) error
	// ParseNotification verifies the webhook signature before decoding the body
	ParseNotification(header http.Header, body []byte) (*models.GatewayNotification, error)
}

// GatewayResolver picks the adapter for a provider; an empty provider means the default
type GatewayResolver interface {
	Get(provider models.GatewayProvider) (PaymentGateway, error)
}

// EventPublisher announces payment lifecycle changes
type EventPublisher interface {
	PublishPaymentPaid(ctx context.Context, event models.PaymentEvent) error
	PublishPaymentStatusChanged(ctx context.Context, event models.PaymentEvent) error
}
