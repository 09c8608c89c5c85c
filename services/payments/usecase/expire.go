package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
)

const defaultPollBatchSize = 50

// ExpireStale re-checks PENDING transactions that have waited longer than
// PendingCheckAfter. Gateway answers are reconciled as usual. A transaction
// past its payment deadline is expired locally when the gateway still says
// pending or cannot be reached.
func (uc *paymentUC) ExpireStale(ctx context.Context) error {
	now := uc.now().UTC()
	olderThan := now.Add(-time.Duration(uc.cfg.Payment.PendingCheckAfter) * time.Second)
	limit := uc.cfg.Payment.PollBatchSize
	if limit <= 0 {
		limit = defaultPollBatchSize
	}

	pending, err := uc.txRepo.ListPending(ctx, olderThan, limit)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	var failed int
	for _, tx := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := uc.checkPending(ctx, tx, now); err != nil {
			failed++
			logger.WarnCtx(ctx, "Failed to check pending transaction",
				logger.String("order_id", tx.OrderID),
				logger.Err(err))
		}
	}

	logger.InfoCtx(ctx, "Checked pending transactions",
		logger.Int("checked", len(pending)),
		logger.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d pending transactions could not be checked", failed, len(pending))
	}
	return nil
}

func (uc *paymentUC) checkPending(ctx context.Context, tx *models.Transaction, now time.Time) error {
	if tx.IsFree() {
		return nil
	}
	overdue := now.After(uc.deadline(tx))

	gw, err := uc.gateways.Get(tx.Provider)
	if err != nil {
		return err
	}

	notification, err := gw.GetStatus(ctx, tx)
	if err != nil {
		if overdue {
			logger.WarnCtx(ctx, "Gateway unreachable for overdue transaction, expiring locally",
				logger.String("order_id", tx.OrderID),
				logger.Err(err))
			_, err = uc.Reconcile(ctx, uc.localExpiry(tx))
		}
		return err
	}
	if notification.OrderID == "" {
		notification.OrderID = tx.OrderID
	}

	if overdue && notification.Status == models.PaymentStatusPending {
		notification = uc.localExpiry(tx)
	}
	_, err = uc.Reconcile(ctx, notification)
	return err
}

// deadline is the stored expiry, or the configured invoice duration after creation
func (uc *paymentUC) deadline(tx *models.Transaction) time.Time {
	if tx.ExpiredAt != nil {
		return *tx.ExpiredAt
	}
	return tx.CreatedAt.Add(time.Duration(uc.cfg.Payment.InvoiceDurationMins) * time.Minute)
}

func (uc *paymentUC) localExpiry(tx *models.Transaction) *models.GatewayNotification {
	return &models.GatewayNotification{
		Provider:   tx.Provider,
		OrderID:    tx.OrderID,
		ExternalID: tx.ExternalID,
		RawStatus:  localExpiryStatus,
		Status:     models.PaymentStatusExpired,
		Recognized: true,
	}
}
