package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Document is a row of the generic document store: one schemaless payload
// filed under a named collection. The presence audit trail lives here, in
// the facultyAvailability collection.
type Document struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Collection string         `gorm:"size:100;not null;index" json:"collection"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null" json:"data"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
