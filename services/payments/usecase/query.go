package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/piresc/ramein/internal/pkg/constants"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
)

func (uc *paymentUC) GetByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	return uc.txRepo.GetByOrderID(ctx, orderID)
}

func (uc *paymentUC) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

func (uc *paymentUC) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	return uc.txRepo.ListByUser(ctx, userID)
}

func (uc *paymentUC) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Transaction, error) {
	return uc.txRepo.ListByEvent(ctx, eventID)
}

// ListTransactions returns one page of the ledger, newest first
func (uc *paymentUC) ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionPage, error) {
	filter.Normalize()

	txs, total, err := uc.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.TransactionPage{
		Transactions: txs,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}, nil
}

// GetStats aggregates the ledger. Unfiltered stats are served from Redis for
// a short TTL and dropped on every status change.
func (uc *paymentUC) GetStats(ctx context.Context, filter models.TransactionFilter) (*models.TransactionStats, error) {
	cacheable := filter.IsZero() && uc.cache != nil

	if cacheable {
		cached, err := uc.cache.GetStats(ctx)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to read cached stats", logger.Err(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := uc.txRepo.GetStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.cache.SetStats(ctx, stats, constants.PaymentStatsTTL); err != nil {
			logger.WarnCtx(ctx, "Failed to cache stats", logger.Err(err))
		}
	}
	return stats, nil
}
