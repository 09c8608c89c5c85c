package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a transaction
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusExpired   PaymentStatus = "EXPIRED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// GatewayProvider identifies the payment gateway that handles a transaction
type GatewayProvider string

const (
	GatewayMidtrans GatewayProvider = "midtrans"
	GatewayXendit   GatewayProvider = "xendit"
	// GatewayFree marks zero-price registrations that never reach a gateway
	GatewayFree GatewayProvider = "free"
)

// Transaction is one payment attempt of a user for an event
type Transaction struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	OrderID            string          `json:"order_id" db:"order_id"`
	UserID             uuid.UUID       `json:"user_id" db:"user_id"`
	EventID            uuid.UUID       `json:"event_id" db:"event_id"`
	Amount             int64           `json:"amount" db:"amount"`
	AdminFee           int64           `json:"admin_fee" db:"admin_fee"`
	TotalAmount        int64           `json:"total_amount" db:"total_amount"`
	Status             PaymentStatus   `json:"status" db:"status"`
	Provider           GatewayProvider `json:"provider" db:"provider"`
	PaymentMethod      string          `json:"payment_method,omitempty" db:"payment_method"`
	ExternalID         string          `json:"external_id,omitempty" db:"external_id"`
	PaymentURL         string          `json:"payment_url,omitempty" db:"payment_url"`
	FailureReason      string          `json:"failure_reason,omitempty" db:"failure_reason"`
	PaidAt             *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	ExpiredAt          *time.Time      `json:"expired_at,omitempty" db:"expired_at"`
	RawGatewayResponse RawPayload      `json:"-" db:"raw_gateway_response"`
	ParticipantID      *uuid.UUID      `json:"participant_id,omitempty" db:"participant_id"`
	Version            int64           `json:"-" db:"version"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// IsFree reports whether the transaction was settled without a gateway
func (t *Transaction) IsFree() bool {
	return t.Provider == GatewayFree || t.Amount == 0
}

// Participant is a confirmed registration of a user for an event
type Participant struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	EventID     uuid.UUID  `json:"event_id" db:"event_id"`
	TokenNumber string     `json:"token_number" db:"token_number"`
	HasAttended bool       `json:"has_attended" db:"has_attended"`
	AttendedAt  *time.Time `json:"attended_at,omitempty" db:"attended_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// User is the subset of the user record the payment flow reads
type User struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"full_name" db:"full_name"`
	Email    string    `json:"email" db:"email"`
	Phone    string    `json:"phone" db:"phone"`
}

// Event is the subset of the event record the payment flow reads
type Event struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Title string    `json:"title" db:"title"`
	Price int64     `json:"price" db:"price"`
}

// RawPayload is a gateway payload kept verbatim in a jsonb column
type RawPayload []byte

// Value implements driver.Valuer; an empty payload is stored as NULL
func (p RawPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return string(p), nil
}

// Scan implements sql.Scanner
func (p *RawPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append(RawPayload(nil), v...)
	case string:
		*p = RawPayload(v)
	default:
		return fmt.Errorf("cannot scan %T into RawPayload", src)
	}
	return nil
}
