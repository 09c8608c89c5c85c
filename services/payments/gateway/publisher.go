package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/piresc/ramein/internal/pkg/constants"
	"github.com/piresc/ramein/internal/pkg/models"
	natspkg "github.com/piresc/ramein/internal/pkg/nats"
	"github.com/piresc/ramein/services/payments"
)

// PaymentPublisher publishes payment lifecycle events to NATS
type PaymentPublisher struct {
	natsClient *natspkg.Client
}

func NewPaymentPublisher(client *natspkg.Client) payments.EventPublisher {
	return &PaymentPublisher{
		natsClient: client,
	}
}

// PublishPaymentPaid is consumed by the notification service for confirmation e-mails
func (p *PaymentPublisher) PublishPaymentPaid(ctx context.Context, event models.PaymentEvent) error {
	return p.publish(constants.SubjectPaymentPaid, event)
}

func (p *PaymentPublisher) PublishPaymentStatusChanged(ctx context.Context, event models.PaymentEvent) error {
	return p.publish(constants.SubjectPaymentStatusChanged, event)
}

func (p *PaymentPublisher) publish(subject string, event models.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}
	return p.natsClient.Publish(subject, data)
}
