package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overdueTx(orderID string) *models.Transaction {
	tx := pendingTx(orderID)
	expiredAt := fixedNow.Add(-time.Minute)
	tx.ExpiredAt = &expiredAt
	return tx
}

func TestExpireStale_NothingPending(t *testing.T) {
	d := newTestDeps(t)

	d.txRepo.EXPECT().ListPending(gomock.Any(), fixedNow.Add(-5*time.Minute), 10).Return(nil, nil)

	assert.NoError(t, d.uc.ExpireStale(context.Background()))
}

func TestExpireStale_OverduePendingExpiresLocally(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	tx := overdueTx("RMN-1")

	d.txRepo.EXPECT().ListPending(ctx, gomock.Any(), 10).Return([]*models.Transaction{tx}, nil)
	d.resolver.EXPECT().Get(models.GatewayMidtrans).Return(d.gw, nil)
	d.gw.EXPECT().GetStatus(ctx, tx).Return(notification("RMN-1", models.PaymentStatusPending, "pending"), nil)
	d.expectLock("RMN-1")
	d.txRepo.EXPECT().GetByOrderID(ctx, "RMN-1").Return(tx, nil)
	d.txRepo.EXPECT().UpdateStatus(ctx, gomock.Any(), int64(2)).
		DoAndReturn(func(_ context.Context, updated *models.Transaction, _ int64) error {
			assert.Equal(t, models.PaymentStatusExpired, updated.Status)
			assert.Equal(t, "payment window elapsed without settlement", updated.FailureReason)
			return nil
		})
	d.cache.EXPECT().InvalidateStats(ctx).Return(nil)
	d.publisher.EXPECT().PublishPaymentStatusChanged(ctx, gomock.Any()).Return(nil)

	assert.NoError(t, d.uc.ExpireStale(ctx))
}

func TestExpireStale_GatewayDownExpiresOverdueOnly(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	overdue := overdueTx("RMN-1")
	fresh := pendingTx("RMN-2")
	gwErr := &models.GatewayError{Provider: models.GatewayMidtrans, Operation: "get_status", StatusCode: 503}

	d.txRepo.EXPECT().ListPending(ctx, gomock.Any(), 10).Return([]*models.Transaction{overdue, fresh}, nil)
	d.resolver.EXPECT().Get(models.GatewayMidtrans).Return(d.gw, nil).Times(2)
	d.gw.EXPECT().GetStatus(ctx, gomock.Any()).Return(nil, gwErr).Times(2)

	d.expectLock("RMN-1")
	d.txRepo.EXPECT().GetByOrderID(ctx, "RMN-1").Return(overdue, nil)
	d.txRepo.EXPECT().UpdateStatus(ctx, gomock.Any(), int64(2)).Return(nil)
	d.cache.EXPECT().InvalidateStats(ctx).Return(nil)
	d.publisher.EXPECT().PublishPaymentStatusChanged(ctx, gomock.Any()).Return(nil)

	err := d.uc.ExpireStale(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestExpireStale_ReconcilesGatewayResult(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	tx := pendingTx("RMN-1")

	d.txRepo.EXPECT().ListPending(ctx, gomock.Any(), 10).Return([]*models.Transaction{tx}, nil)
	d.resolver.EXPECT().Get(models.GatewayMidtrans).Return(d.gw, nil)
	d.gw.EXPECT().GetStatus(ctx, tx).Return(notification("RMN-1", models.PaymentStatusPaid, "settlement"), nil)
	d.expectLock("RMN-1")
	d.txRepo.EXPECT().GetByOrderID(ctx, "RMN-1").Return(tx, nil)
	d.txRepo.EXPECT().MarkPaid(ctx, gomock.Any(), gomock.Any(), int64(2)).
		DoAndReturn(func(_ context.Context, _ *models.Transaction, p *models.Participant, _ int64) (*models.Participant, error) {
			return p, nil
		})
	d.cache.EXPECT().InvalidateStats(ctx).Return(nil)
	d.publisher.EXPECT().PublishPaymentPaid(ctx, gomock.Any()).Return(nil)

	assert.NoError(t, d.uc.ExpireStale(ctx))
}

func TestExpireStale_ListError(t *testing.T) {
	d := newTestDeps(t)
	dbErr := errors.New("connection refused")

	d.txRepo.EXPECT().ListPending(gomock.Any(), gomock.Any(), 10).Return(nil, dbErr)

	assert.ErrorIs(t, d.uc.ExpireStale(context.Background()), dbErr)
}

func TestDeadline_FallsBackToInvoiceDuration(t *testing.T) {
	d := newTestDeps(t)
	tx := pendingTx("RMN-1")

	assert.Equal(t, tx.CreatedAt.Add(time.Hour), d.uc.deadline(tx))

	tx = overdueTx("RMN-2")
	assert.Equal(t, *tx.ExpiredAt, d.uc.deadline(tx))
}
