package constants

// NATS subjects published by the payments service
const (
	SubjectPaymentPaid          = "payment.paid"
	SubjectPaymentStatusChanged = "payment.status_changed"
)
