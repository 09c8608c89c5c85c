package payments

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/piresc/ramein/internal/pkg/models"
)

// PaymentUC defines the payment business logic
// go:generate mockgen -destination=../mocks/mock_usecase.go -package=mocks github.com/piresc/ramein/services/payments PaymentUC
type PaymentUC interface {
	CreateTransaction(ctx context.Context, userID, eventID uuid.UUID, provider models.GatewayProvider) (*models.CreateTransactionResponse, error)
	CheckTransactionStatus(ctx context.Context, orderID string) (*models.Transaction, error)
	// CancelTransaction checks ownership unless userID is uuid.Nil
	CancelTransaction(ctx context.Context, orderID string, userID uuid.UUID) (*models.Transaction, error)
	RefundTransaction(ctx context.Context, orderID, reason string) (*models.Transaction, error)
	HandleNotification(ctx context.Context, provider models.GatewayProvider, header http.Header, body []byte) (*models.Transaction, error)
	Reconcile(ctx context.Context, notification *models.GatewayNotification) (*models.Transaction, error)

	GetByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionPage, error)
	GetStats(ctx context.Context, filter models.TransactionFilter) (*models.TransactionStats, error)

	ExpireStale(ctx context.Context) error
}
