package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProgramID   uuid.UUID  `gorm:"not null" json:"program_id"`
	FacultyID   *uuid.UUID `gorm:"" json:"faculty_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Code        string     `gorm:"size:20;not null;unique" json:"code"`
	CreditHours int        `gorm:"not null;default:3" json:"credit_hours"`
	Semester    int        `gorm:"not null;default:1" json:"semester"`

	Program Program `gorm:"foreignkey:ProgramID" json:"program,omitempty"`
	Faculty *User   `gorm:"foreignkey:FacultyID" json:"faculty,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
