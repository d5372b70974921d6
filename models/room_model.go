package models

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:50;not null;unique" json:"name"`
	Building *string   `gorm:"size:100" json:"building"`
	Capacity int       `gorm:"not null;default:40" json:"capacity"`
	RoomType string    `gorm:"size:20;not null;default:'classroom'" json:"room_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
