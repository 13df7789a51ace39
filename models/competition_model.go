package models

import (
	"time"

	"github.com/google/uuid"
)

type Competition struct {
	ID       string `gorm:"size:32;primary_key" json:"id"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Subtitle string `gorm:"size:255" json:"subtitle"`
	Banner   string `gorm:"size:500" json:"banner"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	Creator   User      `gorm:"foreignkey:CreatedBy" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
