package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Tags        []string  `gorm:"serializer:json" json:"tags,omitempty"`

	GroupID *uuid.UUID `gorm:"type:uuid" json:"group_id,omitempty"`
	Group   *Group     `gorm:"foreignkey:GroupID" json:"-"`

	// 0 means the quiz is untimed.
	TimeLimitSeconds int  `gorm:"not null;default:0" json:"time_limit_seconds"`
	Opened           bool `gorm:"not null;default:false" json:"opened"`

	Questions []*Question `gorm:"foreignkey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
