package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"size:100;not null;unique" json:"username"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'pending'" json:"role"`

	AIAPIKey  *string `gorm:"size:255" json:"-"`
	AIBaseURL *string `gorm:"size:255" json:"-"`
	AIModel   string  `gorm:"size:100;default:'gpt-3.5-turbo'" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id in the application so the schema does not lean
// on a database-specific uuid function.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
