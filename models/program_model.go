package models

import (
	"time"

	"github.com/google/uuid"
)

type Program struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DepartmentID uuid.UUID `gorm:"not null" json:"department_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Code         string    `gorm:"size:20;not null;unique" json:"code"`
	Semesters    int       `gorm:"not null;default:8" json:"semesters"`

	Department Department `gorm:"foreignkey:DepartmentID" json:"department,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
