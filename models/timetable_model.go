package models

import (
	"time"

	"github.com/google/uuid"
)

type TimetableEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID  uuid.UUID `gorm:"not null" json:"course_id"`
	RoomID    uuid.UUID `gorm:"not null" json:"room_id"`
	DayOfWeek int       `gorm:"not null" json:"day_of_week"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`

	Course Course `gorm:"foreignkey:CourseID" json:"course,omitempty"`
	Room   Room   `gorm:"foreignkey:RoomID" json:"room,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
