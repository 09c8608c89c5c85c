package models

// allowedTransitions lists every status change the ledger accepts.
// Statuses missing as keys are terminal.
var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {
		PaymentStatusPaid,
		PaymentStatusFailed,
		PaymentStatusExpired,
		PaymentStatusCancelled,
	},
	PaymentStatusPaid: {
		PaymentStatusRefunded,
	},
}

// CanTransition reports whether a transaction may move from one status to another
func CanTransition(from, to PaymentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no automatic transition leaves the status.
// PAID is terminal for gateway updates even though a manual refund can move it.
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentStatusPending
}

// IsValid reports whether s is one of the known statuses
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusExpired, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// AllPaymentStatuses returns the statuses in lifecycle order
func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusPaid,
		PaymentStatusFailed,
		PaymentStatusExpired,
		PaymentStatusCancelled,
		PaymentStatusRefunded,
	}
}
