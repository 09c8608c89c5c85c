package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateTransactionRequest is the body of a transaction creation call
type CreateTransactionRequest struct {
	EventID  string `json:"event_id"`
	Provider string `json:"provider,omitempty"`
}

// RefundRequest is the body of an admin refund call
type RefundRequest struct {
	Reason string `json:"reason"`
}

// ChargeRequest carries what a gateway needs to open an invoice or charge
type ChargeRequest struct {
	OrderID     string
	Amount      int64
	AdminFee    int64
	TotalAmount int64
	Event       *Event
	User        *User
}

// ChargeResult is what a gateway returns for a created invoice or charge
type ChargeResult struct {
	ExternalID string
	PaymentURL string
	ExpiresAt  *time.Time
	Raw        json.RawMessage
}

// GatewayNotification is a gateway status update normalized to the internal vocabulary
type GatewayNotification struct {
	Provider      GatewayProvider
	OrderID       string
	ExternalID    string
	RawStatus     string
	FraudStatus   string
	Status        PaymentStatus
	Recognized    bool
	PaymentMethod string
	PaidAt        *time.Time
	Raw           json.RawMessage
}

// PaymentEvent is published on NATS when a transaction changes status
type PaymentEvent struct {
	TransactionID uuid.UUID     `json:"transaction_id"`
	OrderID       string        `json:"order_id"`
	UserID        uuid.UUID     `json:"user_id"`
	EventID       uuid.UUID     `json:"event_id"`
	ParticipantID *uuid.UUID    `json:"participant_id,omitempty"`
	TokenNumber   string        `json:"token_number,omitempty"`
	Status        PaymentStatus `json:"status"`
	PreviousState PaymentStatus `json:"previous_status,omitempty"`
	TotalAmount   int64         `json:"total_amount"`
	Timestamp     time.Time     `json:"timestamp"`
}

// CreateTransactionResponse is returned to the client after creation
type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
	Participant *Participant `json:"participant,omitempty"`
}
