package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'faculty'" json:"role"`

	EmployeeCode *string    `gorm:"size:10;unique" json:"employee_code"`
	Designation  *string    `gorm:"size:100" json:"designation"`
	Phone        *string    `gorm:"size:30" json:"phone"`
	DepartmentID *uuid.UUID `gorm:"" json:"department_id"`
	ProgramID    *uuid.UUID `gorm:"" json:"program_id"`

	Department *Department `gorm:"foreignkey:DepartmentID" json:"department,omitempty"`
	Program    *Program    `gorm:"foreignkey:ProgramID" json:"program,omitempty"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
