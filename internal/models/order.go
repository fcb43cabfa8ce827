package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusOrder     OrderStatus = "ORDER"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancel    OrderStatus = "CANCEL"
)

// Valid reports whether s is one of the known order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOrder, OrderStatusReady, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancel:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancel
}

// OrderItem is a single line of an order. OrderPrice is the unit price times
// the count at the time the order was placed.
type OrderItem struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string    `json:"orderId" gorm:"type:varchar(36);index;not null"`
	ItemID     string    `json:"itemId" gorm:"type:varchar(36);index;not null"`
	OrderPrice int64     `json:"orderPrice" gorm:"not null"`
	Count      int       `json:"count" gorm:"not null"`
	Item       *Item     `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}

// Order represents a customer order.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string      `json:"userId" gorm:"type:varchar(36);index;not null"`
	OrderDate   time.Time   `json:"orderDate" gorm:"index;not null"`
	OrderStatus OrderStatus `json:"orderStatus" gorm:"type:varchar(16);not null"`
	OrderItems  []OrderItem `json:"orderItems" gorm:"constraint:OnDelete:CASCADE"`
	User        *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// TotalCount is the number of units across all lines.
func (o *Order) TotalCount() int {
	total := 0
	for _, line := range o.OrderItems {
		total += line.Count
	}
	return total
}
