package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is ephemeral: created on first add-to-cart, destroyed by settlement.
// TotalPrice must equal the sum of item prices after every mutation.
type Cart struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID    uuid.UUID `gorm:"not null;unique" json:"owner_id"`
	TotalPrice float64   `gorm:"type:numeric(12,2);not null;default:0" json:"total_price"`

	Items []CartItem `gorm:"foreignkey:CartID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CartID   uuid.UUID `gorm:"not null;index;uniqueIndex:idx_cart_course" json:"cart_id"`
	CourseID uuid.UUID `gorm:"not null;uniqueIndex:idx_cart_course" json:"course_id"`

	Course Course `gorm:"foreignkey:CourseID" json:"course"`

	CreatedAt time.Time `json:"created_at"`
}
