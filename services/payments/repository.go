package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/ramein/internal/pkg/models"
)

// TransactionRepo defines the ledger data access operations
// go:generate mockgen -destination=../mocks/mock_repository.go -package=mocks github.com/piresc/ramein/services/payments TransactionRepo,DirectoryRepo,CacheRepo
type TransactionRepo interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	CreatePaid(ctx context.Context, tx *models.Transaction, participant *models.Participant) (*models.Participant, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int64, error)
	GetStats(ctx context.Context, filter models.TransactionFilter) (*models.TransactionStats, error)
	FindActiveByUserEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Transaction, error)
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]*models.Transaction, error)
	UpdateGatewayInfo(ctx context.Context, tx *models.Transaction) error
	UpdateStatus(ctx context.Context, tx *models.Transaction, expectedVersion int64) error
	MarkPaid(ctx context.Context, tx *models.Transaction, participant *models.Participant, expectedVersion int64) (*models.Participant, error)
}

// DirectoryRepo reads the user and event records owned by other services
type DirectoryRepo interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ParticipantExists(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

// CacheRepo holds the Redis backed locks, counters and caches
type CacheRepo interface {
	AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (string, bool, error)
	ReleaseOrderLock(ctx context.Context, orderID, token string) error
	GetStats(ctx context.Context) (*models.TransactionStats, error)
	SetStats(ctx context.Context, stats *models.TransactionStats, ttl time.Duration) error
	InvalidateStats(ctx context.Context) error
	AllowCreate(ctx context.Context, userID uuid.UUID, limit int, window time.Duration) (bool, error)
}
