package usecase

import (
	"testing"

	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCalculateAdminFee(t *testing.T) {
	defaults := models.PaymentConfig{AdminFeeRate: 0.02, AdminFeeMin: 1000, AdminFeeMax: 10000}

	tests := []struct {
		name   string
		amount int64
		cfg    models.PaymentConfig
		want   int64
	}{
		{name: "free event", amount: 0, cfg: defaults, want: 0},
		{name: "percentage", amount: 150000, cfg: defaults, want: 3000},
		{name: "floor", amount: 10000, cfg: defaults, want: 1000},
		{name: "cap", amount: 1000000, cfg: defaults, want: 10000},
		{name: "exactly at cap", amount: 500000, cfg: defaults, want: 10000},
		{name: "rounds half up", amount: 100100, cfg: models.PaymentConfig{AdminFeeRate: 0.015, AdminFeeMin: 1000}, want: 1502},
		{name: "rounds down", amount: 123420, cfg: models.PaymentConfig{AdminFeeRate: 0.015, AdminFeeMin: 1000}, want: 1851},
		{name: "cap disabled", amount: 1000000, cfg: models.PaymentConfig{AdminFeeRate: 0.02, AdminFeeMin: 1000}, want: 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateAdminFee(tt.amount, tt.cfg))
		})
	}
}
