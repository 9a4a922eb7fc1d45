package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TutorID      uuid.UUID `gorm:"not null;index" json:"tutor_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description"`
	Price        float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	ThumbnailURL *string   `gorm:"size:255" json:"thumbnail_url"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	Tutor User `gorm:"foreignkey:TutorID" json:"tutor"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
