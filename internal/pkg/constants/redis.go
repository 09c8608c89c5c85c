package constants

import "time"

// Redis key formats
const (
	KeyPaymentOrderLock  = "payment:lock:%s"        // payment:lock:{order_id}
	KeyPaymentStats      = "payment:stats"          // cached ledger statistics
	KeyPaymentCreateRate = "payment:rate:create:%s" // payment:rate:create:{user_id}
)

const (
	PaymentOrderLockTTL = 30 * time.Second
	PaymentStatsTTL     = 30 * time.Second
)
