package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment tracks one deposit through the external provider. OrderCode is the
// correlation id the provider echoes back on its webhook; it is a generated
// UUID, not a timestamp, so concurrent deposits cannot collide.
type Payment struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderCode   string        `gorm:"size:64;not null;unique" json:"order_code"`
	OwnerID     uuid.UUID     `gorm:"not null;index" json:"owner_id"`
	WalletID    uuid.UUID     `gorm:"not null;index" json:"wallet_id"`
	Status      PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Amount      float64       `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description string        `gorm:"size:255" json:"description"`
	CheckoutURL *string       `gorm:"size:512" json:"checkout_url,omitempty"`

	Wallet Wallet `gorm:"foreignkey:WalletID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the payment has reached a final state.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentPaid || p.Status == PaymentCancelled
}

// MarkPaid transitions pending -> paid.
func (p *Payment) MarkPaid() error {
	if p.Status != PaymentPending {
		return fmt.Errorf("payment %s is already %s", p.OrderCode, p.Status)
	}
	p.Status = PaymentPaid
	return nil
}

// MarkCancelled transitions pending -> cancelled.
func (p *Payment) MarkCancelled() error {
	if p.Status != PaymentPending {
		return fmt.Errorf("payment %s is already %s", p.OrderCode, p.Status)
	}
	p.Status = PaymentCancelled
	return nil
}
