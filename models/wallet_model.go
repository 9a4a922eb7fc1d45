package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds the durable balance for one student or tutor. Created lazily
// on first access, never deleted. CurrentBalance must never go below zero;
// the Total* counters are monotonic non-decreasing.
type Wallet struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID uuid.UUID `gorm:"not null;unique" json:"owner_id"`

	CurrentBalance  float64 `gorm:"type:numeric(12,2);not null;default:0" json:"current_balance"`
	TotalEarning    float64 `gorm:"type:numeric(12,2);not null;default:0" json:"total_earning"`
	TotalDeposit    float64 `gorm:"type:numeric(12,2);not null;default:0" json:"total_deposit"`
	TotalSpend      float64 `gorm:"type:numeric(12,2);not null;default:0" json:"total_spend"`
	TotalWithdrawal float64 `gorm:"type:numeric(12,2);not null;default:0" json:"total_withdrawal"`

	// At most one outstanding deposit at a time.
	PendingPaymentID *uuid.UUID `gorm:"type:uuid" json:"pending_payment_id"`

	WithdrawalRequests []WithdrawalRequest `gorm:"foreignkey:WalletID" json:"withdrawal_requests,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bucket names the monotonic counter a credit or debit also increments.
type Bucket string

const (
	BucketEarning    Bucket = "earning"
	BucketDeposit    Bucket = "deposit"
	BucketSpend      Bucket = "spend"
	BucketWithdrawal Bucket = "withdrawal"
)
