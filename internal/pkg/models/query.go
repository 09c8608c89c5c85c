package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// TransactionFilter narrows ledger listings and statistics
type TransactionFilter struct {
	Status   PaymentStatus
	UserID   uuid.UUID
	EventID  uuid.UUID
	Provider GatewayProvider
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// Normalize applies default paging and clamps the limit
func (f *TransactionFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

// Offset returns the row offset of the current page
func (f TransactionFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// IsZero reports whether no narrowing field is set
func (f TransactionFilter) IsZero() bool {
	return f.Status == "" && f.UserID == uuid.Nil && f.EventID == uuid.Nil &&
		f.Provider == "" && f.From == nil && f.To == nil
}

// TransactionPage is one page of a ledger listing
type TransactionPage struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int64          `json:"total"`
	Page         int            `json:"page"`
	Limit        int            `json:"limit"`
}

// TransactionStats aggregates the ledger
type TransactionStats struct {
	Total         int64                   `json:"total"`
	CountByStatus map[PaymentStatus]int64 `json:"count_by_status"`
	TotalRevenue  int64                   `json:"total_revenue"`
	TotalAdminFee int64                   `json:"total_admin_fee"`
}
