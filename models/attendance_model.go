package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is one class meeting's attendance, marked by the CR/GR of
// the program section against the timetable entry for that day.
type AttendanceRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TimetableEntryID uuid.UUID `gorm:"not null" json:"timetable_entry_id"`
	MarkedByID       uuid.UUID `gorm:"not null" json:"marked_by_id"`
	ClassDate        time.Time `gorm:"type:date;not null" json:"class_date"`
	Status           string    `gorm:"size:20;not null;default:'held'" json:"status"`
	Remarks          *string   `gorm:"type:text" json:"remarks"`

	TimetableEntry TimetableEntry `gorm:"foreignkey:TimetableEntryID" json:"timetable_entry,omitempty"`
	MarkedBy       User           `gorm:"foreignkey:MarkedByID" json:"marked_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
