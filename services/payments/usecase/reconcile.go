package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/piresc/ramein/internal/pkg/constants"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/metrics"
	"github.com/piresc/ramein/internal/pkg/models"
)

// localExpiryStatus marks notifications synthesized by the stale transaction poller
const localExpiryStatus = "local_expiry"

// HandleNotification verifies a webhook with the provider's gateway and reconciles it
func (uc *paymentUC) HandleNotification(ctx context.Context, provider models.GatewayProvider, header http.Header, body []byte) (*models.Transaction, error) {
	gw, err := uc.gateways.Get(provider)
	if err != nil {
		metrics.Webhook(string(provider), "unsupported")
		return nil, err
	}

	notification, err := gw.ParseNotification(header, body)
	if err != nil {
		result := "invalid_payload"
		if errors.Is(err, models.ErrSignatureInvalid) {
			result = "signature_invalid"
		}
		metrics.Webhook(string(provider), result)
		logger.WarnCtx(ctx, "Rejected gateway notification",
			logger.String("provider", string(provider)),
			logger.String("result", result),
			logger.Err(err))
		return nil, err
	}

	tx, err := uc.Reconcile(ctx, notification)
	if err != nil {
		metrics.Webhook(string(provider), "error")
		return nil, err
	}
	metrics.Webhook(string(provider), "processed")
	return tx, nil
}

// Reconcile applies a normalized gateway status to the ledger. Duplicate,
// unrecognized and disallowed updates leave the transaction untouched, so
// replayed or out of order notifications are harmless.
func (uc *paymentUC) Reconcile(ctx context.Context, n *models.GatewayNotification) (*models.Transaction, error) {
	if n == nil || n.OrderID == "" {
		return nil, fmt.Errorf("%w: missing order id", models.ErrInvalidPayload)
	}

	if token, ok := uc.acquireLock(ctx, n.OrderID); ok {
		defer uc.releaseLock(ctx, n.OrderID, token)
	}

	tx, err := uc.txRepo.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		updated, err := uc.apply(ctx, tx, n)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) || attempt > 0 {
			return nil, err
		}

		// another writer got there first; re-evaluate against its result
		logger.InfoCtx(ctx, "Version conflict while reconciling, reloading",
			logger.String("order_id", n.OrderID))
		tx, err = uc.txRepo.GetByOrderID(ctx, n.OrderID)
		if err != nil {
			return nil, err
		}
	}
}

func (uc *paymentUC) apply(ctx context.Context, tx *models.Transaction, n *models.GatewayNotification) (*models.Transaction, error) {
	fields := []logger.Field{
		logger.String("order_id", tx.OrderID),
		logger.String("current_status", string(tx.Status)),
		logger.String("gateway_status", n.RawStatus),
		logger.String("mapped_status", string(n.Status)),
	}

	if n.Provider != "" && n.Provider != tx.Provider {
		logger.WarnCtx(ctx, "Ignoring notification from a different provider",
			append(fields, logger.String("provider", string(n.Provider)))...)
		return tx, nil
	}
	if !n.Recognized {
		logger.WarnCtx(ctx, "Ignoring unrecognized gateway status", fields...)
		return tx, nil
	}
	if tx.Status == n.Status {
		return tx, nil
	}
	if !models.CanTransition(tx.Status, n.Status) {
		logger.WarnCtx(ctx, "Ignoring disallowed status transition", fields...)
		return tx, nil
	}

	previous := tx.Status
	updated := *tx
	updated.Status = n.Status
	if n.PaymentMethod != "" {
		updated.PaymentMethod = n.PaymentMethod
	}
	if len(n.Raw) > 0 {
		updated.RawGatewayResponse = models.RawPayload(n.Raw)
	}

	if n.Status == models.PaymentStatusPaid {
		updated.PaidAt = n.PaidAt
		participant, err := uc.newParticipant(&updated)
		if err != nil {
			return nil, err
		}
		participant, err = uc.txRepo.MarkPaid(ctx, &updated, participant, tx.Version)
		if err != nil {
			return nil, err
		}

		metrics.StatusTransition(string(previous), string(updated.Status))
		uc.invalidateStats(ctx)
		uc.publish(ctx, &updated, previous, participant)
		logger.InfoCtx(ctx, "Transaction paid",
			append(fields, logger.String("participant_id", participant.ID.String()))...)
		return &updated, nil
	}

	updated.FailureReason = failureReason(n)
	if err := uc.txRepo.UpdateStatus(ctx, &updated, tx.Version); err != nil {
		return nil, err
	}

	uc.afterTransition(ctx, &updated, previous)
	logger.InfoCtx(ctx, "Transaction status updated", fields...)
	return &updated, nil
}

func failureReason(n *models.GatewayNotification) string {
	if n.RawStatus == localExpiryStatus {
		return "payment window elapsed without settlement"
	}
	return truncateReason(fmt.Sprintf("%s reported %s", n.Provider, n.RawStatus))
}

// acquireLock is best effort: the version check still guards the row when
// Redis is down or another worker holds the lock
func (uc *paymentUC) acquireLock(ctx context.Context, orderID string) (string, bool) {
	if uc.cache == nil {
		return "", false
	}
	token, ok, err := uc.cache.AcquireOrderLock(ctx, orderID, constants.PaymentOrderLockTTL)
	if err != nil {
		logger.WarnCtx(ctx, "Order lock unavailable, continuing without it",
			logger.String("order_id", orderID),
			logger.Err(err))
		return "", false
	}
	if !ok {
		logger.DebugCtx(ctx, "Order lock held elsewhere, continuing",
			logger.String("order_id", orderID))
	}
	return token, ok
}

func (uc *paymentUC) releaseLock(ctx context.Context, orderID, token string) {
	if err := uc.cache.ReleaseOrderLock(ctx, orderID, token); err != nil {
		logger.WarnCtx(ctx, "Failed to release order lock",
			logger.String("order_id", orderID),
			logger.Err(err))
	}
}
