package models

import "time"

// Like marks an item as a favourite of a user.
type Like struct {
	UserID    string    `json:"userId" gorm:"primaryKey;type:varchar(36)"`
	ItemID    string    `json:"itemId" gorm:"primaryKey;type:varchar(36)"`
	Item      *Item     `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	CreatedAt time.Time `json:"createdAt"`
}
