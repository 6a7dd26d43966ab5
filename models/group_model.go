package models

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	JoinCode string    `gorm:"size:10;not null;unique" json:"join_code"`

	Teachers []*User `gorm:"many2many:group_teachers;" json:"teachers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
