package models

import (
	"errors"
	"fmt"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrAlreadyRegistered   = errors.New("user already has an active transaction or registration for this event")
	ErrSignatureInvalid    = errors.New("invalid webhook signature")
	ErrVersionConflict     = errors.New("transaction was modified concurrently")
	ErrRateLimited         = errors.New("too many transaction requests, try again later")
	ErrUnsupportedGateway  = errors.New("unsupported payment gateway")
	ErrInvalidPayload      = errors.New("invalid gateway payload")
)

// InvalidStateError is returned when an operation is not allowed in the current status
type InvalidStateError struct {
	OrderID string
	Status  PaymentStatus
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// NewInvalidStateError builds an InvalidStateError with a formatted message
func NewInvalidStateError(orderID string, status PaymentStatus, format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{
		OrderID: orderID,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// GatewayError describes a failed upstream call to a payment gateway
type GatewayError struct {
	Provider   GatewayProvider
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is one of the not-found sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrEventNotFound)
}
