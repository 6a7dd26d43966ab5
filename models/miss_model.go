package models

import (
	"time"

	"github.com/google/uuid"
)

// Miss records one attendance session for a student. Several rows may exist
// per student and date; each teacher marking is a new row.
type Miss struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	HoursPresent int       `gorm:"not null" json:"hours_present"`
	Date         string    `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD

	Student *User `gorm:"foreignkey:StudentID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
