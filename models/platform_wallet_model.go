package models

import "time"

// PlatformWallet is a singleton. The Slot column carries a unique constraint
// so the create-if-absent boot step cannot race itself into two rows.
type PlatformWallet struct {
	ID   uint `gorm:"primary_key" json:"-"`
	Slot int  `gorm:"not null;default:1;unique" json:"-"`

	CurrentBalance float64 `gorm:"type:numeric(14,2);not null;default:0" json:"current_balance"`
	TotalEarning   float64 `gorm:"type:numeric(14,2);not null;default:0" json:"total_earning"`
	CashIn         float64 `gorm:"type:numeric(14,2);not null;default:0" json:"cash_in"`
	CashOut        float64 `gorm:"type:numeric(14,2);not null;default:0" json:"cash_out"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
