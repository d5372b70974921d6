package models

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null;unique" json:"name"`
	Code     string    `gorm:"size:10;not null;unique" json:"code"`
	Building *string   `gorm:"size:100" json:"building"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
