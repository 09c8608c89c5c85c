package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/metrics"
	"github.com/piresc/ramein/internal/pkg/models"
	nrpkg "github.com/piresc/ramein/internal/pkg/newrelic"
	"github.com/piresc/ramein/internal/utils"
	"github.com/piresc/ramein/services/payments"
)

const (
	orderIDPrefix     = "RMN"
	orderIDRandomLen  = 6
	tokenNumberLength = 10
	maxFailureReason  = 255
)

// paymentUC implements the payments.PaymentUC interface
type paymentUC struct {
	cfg       *models.Config
	txRepo    payments.TransactionRepo
	dirRepo   payments.DirectoryRepo
	cache     payments.CacheRepo
	gateways  payments.GatewayResolver
	publisher payments.EventPublisher
	now       func() time.Time
}

// NewPaymentUC creates a new payment use case
func NewPaymentUC(
	cfg *models.Config,
	txRepo payments.TransactionRepo,
	dirRepo payments.DirectoryRepo,
	cache payments.CacheRepo,
	gateways payments.GatewayResolver,
	publisher payments.EventPublisher,
) (payments.PaymentUC, error) {
	if cfg == nil {
		return nil, errors.New("payment use case requires a config")
	}
	if gateways == nil {
		return nil, errors.New("payment use case requires a gateway resolver")
	}
	return &paymentUC{
		cfg:       cfg,
		txRepo:    txRepo,
		dirRepo:   dirRepo,
		cache:     cache,
		gateways:  gateways,
		publisher: publisher,
		now:       time.Now,
	}, nil
}

// CreateTransaction registers a user for an event. Free events are settled
// immediately; priced events get a PENDING transaction and a gateway charge.
func (uc *paymentUC) CreateTransaction(ctx context.Context, userID, eventID uuid.UUID, provider models.GatewayProvider) (*models.CreateTransactionResponse, error) {
	if err := uc.checkRateLimit(ctx, userID); err != nil {
		return nil, err
	}

	user, err := uc.dirRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, err := uc.dirRepo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkNotRegistered(ctx, userID, eventID); err != nil {
		return nil, err
	}

	orderID, err := uc.newOrderID()
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    user.ID,
		EventID:   event.ID,
		Amount:    event.Price,
		AdminFee:  CalculateAdminFee(event.Price, uc.cfg.Payment),
		Status:    models.PaymentStatusPending,
		CreatedAt: uc.now().UTC(),
	}
	tx.TotalAmount = tx.Amount + tx.AdminFee

	if event.Price <= 0 {
		return uc.createFree(ctx, tx)
	}

	gw, err := uc.gateways.Get(provider)
	if err != nil {
		return nil, err
	}
	tx.Provider = gw.Provider()

	if err := uc.txRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Transaction created, requesting gateway charge",
		logger.String("order_id", tx.OrderID),
		logger.String("provider", string(tx.Provider)),
		logger.Int64("total_amount", tx.TotalAmount))

	charge, err := nrpkg.WithSegmentAndReturn(ctx, "Gateway/CreateCharge", func() (*models.ChargeResult, error) {
		return gw.CreateCharge(ctx, models.ChargeRequest{
			OrderID:     tx.OrderID,
			Amount:      tx.Amount,
			AdminFee:    tx.AdminFee,
			TotalAmount: tx.TotalAmount,
			Event:       event,
			User:        user,
		})
	})
	if err != nil {
		return nil, uc.failCharge(ctx, tx, err)
	}

	tx.ExternalID = charge.ExternalID
	tx.PaymentURL = charge.PaymentURL
	tx.ExpiredAt = charge.ExpiresAt
	tx.RawGatewayResponse = models.RawPayload(charge.Raw)
	if err := uc.txRepo.UpdateGatewayInfo(ctx, tx); err != nil {
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		// a notification beat us to the row; return what it wrote
		latest, getErr := uc.txRepo.GetByOrderID(ctx, tx.OrderID)
		if getErr != nil {
			return nil, getErr
		}
		tx = latest
	}

	metrics.TransactionCreated(string(tx.Provider), string(tx.Status))
	uc.invalidateStats(ctx)

	return &models.CreateTransactionResponse{Transaction: tx}, nil
}

// createFree writes the PAID transaction and its participant atomically, so a
// failed write leaves nothing behind to block a retry
func (uc *paymentUC) createFree(ctx context.Context, tx *models.Transaction) (*models.CreateTransactionResponse, error) {
	tx.Provider = models.GatewayFree

	participant, err := uc.newParticipant(tx)
	if err != nil {
		return nil, err
	}
	participant, err = uc.txRepo.CreatePaid(ctx, tx, participant)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Free registration confirmed",
		logger.String("order_id", tx.OrderID),
		logger.String("participant_id", participant.ID.String()))

	metrics.TransactionCreated(string(tx.Provider), string(tx.Status))
	uc.invalidateStats(ctx)
	uc.publish(ctx, tx, models.PaymentStatusPending, participant)

	return &models.CreateTransactionResponse{Transaction: tx, Participant: participant}, nil
}

// failCharge records a failed charge attempt and returns the gateway error
func (uc *paymentUC) failCharge(ctx context.Context, tx *models.Transaction, chargeErr error) error {
	var gwErr *models.GatewayError
	if !errors.As(chargeErr, &gwErr) {
		gwErr = &models.GatewayError{Provider: tx.Provider, Operation: "create_charge", Err: chargeErr}
	}

	logger.ErrorCtx(ctx, "Gateway charge failed",
		logger.String("order_id", tx.OrderID),
		logger.String("provider", string(tx.Provider)),
		logger.Int("status_code", gwErr.StatusCode),
		logger.String("body", gwErr.Body),
		logger.Err(chargeErr))

	failed := *tx
	failed.Status = models.PaymentStatusFailed
	failed.FailureReason = truncateReason(gwErr.Error())
	if err := uc.txRepo.UpdateStatus(ctx, &failed, tx.Version); err != nil {
		logger.ErrorCtx(ctx, "Failed to mark transaction failed after gateway error",
			logger.String("order_id", tx.OrderID),
			logger.Err(err))
	} else {
		*tx = failed
		metrics.StatusTransition(string(models.PaymentStatusPending), string(models.PaymentStatusFailed))
	}

	metrics.TransactionCreated(string(tx.Provider), string(models.PaymentStatusFailed))
	uc.invalidateStats(ctx)
	return gwErr
}

// CheckTransactionStatus asks the gateway for the latest status of a pending
// transaction and reconciles it. Settled and free transactions are returned as stored.
func (uc *paymentUC) CheckTransactionStatus(ctx context.Context, orderID string) (*models.Transaction, error) {
	tx, err := uc.txRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if tx.Status.IsTerminal() || tx.IsFree() {
		return tx, nil
	}

	gw, err := uc.gateways.Get(tx.Provider)
	if err != nil {
		return nil, err
	}

	notification, err := nrpkg.WithSegmentAndReturn(ctx, "Gateway/GetStatus", func() (*models.GatewayNotification, error) {
		return gw.GetStatus(ctx, tx)
	})
	if err != nil {
		logger.WarnCtx(ctx, "Gateway status check failed",
			logger.String("order_id", orderID),
			logger.Err(err))
		return nil, err
	}
	if notification.OrderID == "" {
		notification.OrderID = tx.OrderID
	}
	return uc.Reconcile(ctx, notification)
}

// CancelTransaction cancels a pending transaction at the gateway and locally.
// A non-nil userID must own the transaction.
func (uc *paymentUC) CancelTransaction(ctx context.Context, orderID string, userID uuid.UUID) (*models.Transaction, error) {
	tx, err := uc.txRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && tx.UserID != userID {
		return nil, models.ErrTransactionNotFound
	}
	if err := cancellable(tx); err != nil {
		return nil, err
	}

	if tx.TotalAmount > 0 && !tx.IsFree() {
		gw, err := uc.gateways.Get(tx.Provider)
		if err != nil {
			return nil, err
		}
		err = nrpkg.WithSegment(ctx, "Gateway/Cancel", func() error {
			return gw.Cancel(ctx, tx)
		})
		if err != nil {
			logger.ErrorCtx(ctx, "Gateway cancellation failed",
				logger.String("order_id", orderID),
				logger.Err(err))
			return nil, err
		}
	}

	reason := "cancelled by user"
	if userID == uuid.Nil {
		reason = "cancelled by admin"
	}

	for attempt := 0; ; attempt++ {
		previous := tx.Status
		updated := *tx
		updated.Status = models.PaymentStatusCancelled
		updated.FailureReason = reason

		err = uc.txRepo.UpdateStatus(ctx, &updated, tx.Version)
		if err == nil {
			uc.afterTransition(ctx, &updated, previous)
			logger.InfoCtx(ctx, "Transaction cancelled",
				logger.String("order_id", orderID),
				logger.String("reason", reason))
			return &updated, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) || attempt > 0 {
			return nil, err
		}

		tx, err = uc.txRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := cancellable(tx); err != nil {
			return nil, err
		}
	}
}

func cancellable(tx *models.Transaction) error {
	switch tx.Status {
	case models.PaymentStatusPending:
		return nil
	case models.PaymentStatusPaid:
		return models.NewInvalidStateError(tx.OrderID, tx.Status, "transaction %s is already paid and cannot be cancelled", tx.OrderID)
	case models.PaymentStatusExpired:
		return models.NewInvalidStateError(tx.OrderID, tx.Status, "transaction %s has expired", tx.OrderID)
	case models.PaymentStatusFailed:
		return models.NewInvalidStateError(tx.OrderID, tx.Status, "transaction %s has failed and cannot be cancelled", tx.OrderID)
	case models.PaymentStatusCancelled:
		return models.NewInvalidStateError(tx.OrderID, tx.Status, "transaction %s is already cancelled", tx.OrderID)
	case models.PaymentStatusRefunded:
		return models.NewInvalidStateError(tx.OrderID, tx.Status, "transaction %s has been refunded", tx.OrderID)
	default:
		return models.NewInvalidStateError(tx.OrderID, tx.Status, "transaction %s has unknown status %s", tx.OrderID, tx.Status)
	}
}

// RefundTransaction records a refund settled outside the gateway integration.
// The participant record is kept for the audit trail.
func (uc *paymentUC) RefundTransaction(ctx context.Context, orderID, reason string) (*models.Transaction, error) {
	tx, err := uc.txRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(tx.Status, models.PaymentStatusRefunded) {
		return nil, models.NewInvalidStateError(orderID, tx.Status,
			"only paid transactions can be refunded, %s is %s", orderID, tx.Status)
	}

	if reason == "" {
		reason = "refunded by admin"
	}
	updated := *tx
	updated.Status = models.PaymentStatusRefunded
	updated.FailureReason = truncateReason(reason)
	if err := uc.txRepo.UpdateStatus(ctx, &updated, tx.Version); err != nil {
		return nil, err
	}

	uc.afterTransition(ctx, &updated, tx.Status)
	logger.InfoCtx(ctx, "Transaction refunded",
		logger.String("order_id", orderID),
		logger.String("reason", reason))
	return &updated, nil
}

func (uc *paymentUC) checkRateLimit(ctx context.Context, userID uuid.UUID) error {
	limit := uc.cfg.Payment.CreateRateLimit
	if limit <= 0 || uc.cache == nil {
		return nil
	}

	window := time.Duration(uc.cfg.Payment.CreateRateWindow) * time.Second
	allowed, err := uc.cache.AllowCreate(ctx, userID, limit, window)
	if err != nil {
		logger.WarnCtx(ctx, "Rate limiter unavailable, allowing request",
			logger.String("user_id", userID.String()),
			logger.Err(err))
		return nil
	}
	if !allowed {
		return models.ErrRateLimited
	}
	return nil
}

// checkNotRegistered rejects a user who already has a participant record or a
// pending or paid transaction for the event
func (uc *paymentUC) checkNotRegistered(ctx context.Context, userID, eventID uuid.UUID) error {
	exists, err := uc.dirRepo.ParticipantExists(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrAlreadyRegistered
	}

	active, err := uc.txRepo.FindActiveByUserEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if active == nil {
		return nil
	}
	if active.Status == models.PaymentStatusPending {
		return models.NewInvalidStateError(active.OrderID, active.Status,
			"transaction %s for this event is still pending, complete or cancel it first", active.OrderID)
	}
	return models.ErrAlreadyRegistered
}

// newOrderID returns RMN-<unix millis>-<6 hex>
func (uc *paymentUC) newOrderID() (string, error) {
	suffix, err := utils.GenerateRandomHex(orderIDRandomLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate order id: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", orderIDPrefix, uc.now().UnixMilli(), suffix), nil
}

func (uc *paymentUC) newParticipant(tx *models.Transaction) (*models.Participant, error) {
	token, err := utils.GenerateToken(tokenNumberLength)
	if err != nil {
		return nil, err
	}
	return &models.Participant{
		ID:          uuid.New(),
		UserID:      tx.UserID,
		EventID:     tx.EventID,
		TokenNumber: token,
		CreatedAt:   uc.now().UTC(),
	}, nil
}

// afterTransition records a committed status change
func (uc *paymentUC) afterTransition(ctx context.Context, tx *models.Transaction, previous models.PaymentStatus) {
	metrics.StatusTransition(string(previous), string(tx.Status))
	uc.invalidateStats(ctx)
	uc.publish(ctx, tx, previous, nil)
}

func (uc *paymentUC) invalidateStats(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateStats(ctx); err != nil {
		logger.WarnCtx(ctx, "Failed to invalidate stats cache", logger.Err(err))
	}
}

// publish is fire-and-forget; a failed publish never fails the operation
func (uc *paymentUC) publish(ctx context.Context, tx *models.Transaction, previous models.PaymentStatus, participant *models.Participant) {
	if uc.publisher == nil {
		return
	}

	event := models.PaymentEvent{
		TransactionID: tx.ID,
		OrderID:       tx.OrderID,
		UserID:        tx.UserID,
		EventID:       tx.EventID,
		Status:        tx.Status,
		PreviousState: previous,
		TotalAmount:   tx.TotalAmount,
		Timestamp:     uc.now().UTC(),
	}
	if participant != nil {
		event.ParticipantID = &participant.ID
		event.TokenNumber = participant.TokenNumber
	}

	var err error
	if tx.Status == models.PaymentStatusPaid {
		err = uc.publisher.PublishPaymentPaid(ctx, event)
	} else {
		err = uc.publisher.PublishPaymentStatusChanged(ctx, event)
	}
	if err != nil {
		logger.WarnCtx(ctx, "Failed to publish payment event",
			logger.String("order_id", tx.OrderID),
			logger.String("status", string(tx.Status)),
			logger.Err(err))
	}
}

func truncateReason(reason string) string {
	r := []rune(reason)
	if len(r) <= maxFailureReason {
		return reason
	}
	return string(r[:maxFailureReason])
}
