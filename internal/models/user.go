package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a user of the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	Role      string    `json:"role" gorm:"type:varchar(16);not null;default:USER"`
	Provider  string    `json:"provider" gorm:"type:varchar(16);not null;default:local"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Provider == "" {
		u.Provider = "local"
	}
	return nil
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
