package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Domain stores the client token issued to a user for one origin host.
type Domain struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"userId" gorm:"type:varchar(36);uniqueIndex:idx_domain_user_host;not null"`
	Host        string    `json:"host" gorm:"type:varchar(255);uniqueIndex:idx_domain_user_host;not null"`
	ClientToken string    `json:"clientToken" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *Domain) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
