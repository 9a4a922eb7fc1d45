package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// WithdrawalRequest is a tutor's payout request. A wallet carries at most one
// pending request at any time. The wallet is debited only on approval.
type WithdrawalRequest struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	WalletID    uuid.UUID        `gorm:"not null;index" json:"wallet_id"`
	OwnerID     uuid.UUID        `gorm:"not null;index" json:"owner_id"`
	Amount      float64          `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status      WithdrawalStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes  *string          `gorm:"type:text" json:"admin_notes"`
	RequestedAt time.Time        `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time       `json:"processed_at"`

	Owner User `gorm:"foreignkey:OwnerID" json:"owner"`
}

// Approve transitions pending -> approved.
func (w *WithdrawalRequest) Approve(now time.Time) error {
	if w.Status != WithdrawalPending {
		return fmt.Errorf("withdrawal %s is already %s", w.ID, w.Status)
	}
	w.Status = WithdrawalApproved
	w.ProcessedAt = &now
	return nil
}

// Reject transitions pending -> rejected.
func (w *WithdrawalRequest) Reject(now time.Time) error {
	if w.Status != WithdrawalPending {
		return fmt.Errorf("withdrawal %s is already %s", w.ID, w.Status)
	}
	w.Status = WithdrawalRejected
	w.ProcessedAt = &now
	return nil
}
