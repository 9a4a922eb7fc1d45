package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is an append-only snapshot of a settled cart. Never mutated or deleted.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderNumber string    `gorm:"size:20;not null;unique" json:"order_number"`
	OwnerID     uuid.UUID `gorm:"not null;index" json:"owner_id"`
	OrderDate   time.Time `gorm:"not null" json:"order_date"`
	TotalPrice  float64   `gorm:"type:numeric(12,2);not null" json:"total_price"`
	ReceiptURL  *string   `gorm:"size:255" json:"receipt_url"`

	Items []OrderItem `gorm:"foreignkey:OrderID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID  uuid.UUID `gorm:"not null;index" json:"order_id"`
	CourseID uuid.UUID `gorm:"not null" json:"course_id"`
	TutorID  uuid.UUID `gorm:"not null" json:"tutor_id"`

	// Prices are copied at settlement time so later course edits
	// cannot change what an order reports.
	Price       float64 `gorm:"type:numeric(12,2);not null" json:"price"`
	TutorCut    float64 `gorm:"type:numeric(12,2);not null" json:"tutor_cut"`
	PlatformCut float64 `gorm:"type:numeric(12,2);not null" json:"platform_cut"`

	CourseTitle string `gorm:"size:255;not null" json:"course_title"`
}
