package usecase

import (
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/shopspring/decimal"
)

// CalculateAdminFee returns round(amount * rate) clamped to [AdminFeeMin, AdminFeeMax].
// Free registrations pay no fee and an AdminFeeMax of 0 disables the cap.
func CalculateAdminFee(amount int64, cfg models.PaymentConfig) int64 {
	if amount <= 0 {
		return 0
	}

	fee := decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(cfg.AdminFeeRate)).
		Round(0).
		IntPart()

	if fee < cfg.AdminFeeMin {
		fee = cfg.AdminFeeMin
	}
	if cfg.AdminFeeMax > 0 && fee > cfg.AdminFeeMax {
		fee = cfg.AdminFeeMax
	}
	return fee
}
