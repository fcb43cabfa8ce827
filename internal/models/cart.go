package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the single shopping cart of a user.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"userId" gorm:"type:varchar(36);uniqueIndex;not null"`
	CartItems []CartItem `json:"cartItems" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cartId" gorm:"type:varchar(36);uniqueIndex:idx_cart_item;not null"`
	ItemID    string    `json:"itemId" gorm:"type:varchar(36);uniqueIndex:idx_cart_item;not null"`
	Count     int       `json:"count" gorm:"not null"`
	Item      *Item     `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	return nil
}
