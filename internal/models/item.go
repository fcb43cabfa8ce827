package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SellStatusSell    = "SELL"
	SellStatusSoldOut = "SOLD_OUT"
)

// Item is a catalog entry. StockNumber is owned by the inventory ledger once
// the item is on sale.
type Item struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"itemNm" gorm:"type:varchar(255);index;not null" validate:"required,min=1,max=255"`
	Price       int64          `json:"price" gorm:"not null" validate:"gte=0"`
	StockNumber int            `json:"stockNumber" gorm:"not null;check:chk_items_stock_number,stock_number >= 0" validate:"gte=0"`
	SellStatus  string         `json:"itemSellStatus" gorm:"type:varchar(16);not null;default:SELL" validate:"omitempty,oneof=SELL SOLD_OUT"`
	Summary     string         `json:"itemSummary" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Detail      string         `json:"itemDetail" gorm:"type:text"`
	Images      []ItemImage    `json:"images" gorm:"constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	Categories  []Category     `json:"categories" gorm:"many2many:item_categories" validate:"omitempty,dive"`
	Reviews     []Review       `json:"reviews,omitempty" gorm:"foreignKey:ItemID"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.SellStatus == "" {
		i.SellStatus = SellStatusSell
	}
	return nil
}

// ItemImage points at an already stored image. The first image of an item is
// its representative one.
type ItemImage struct {
	ID             string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ItemID         string `json:"itemId" gorm:"type:varchar(36);index;not null"`
	OriImgName     string `json:"oriImgName" gorm:"type:varchar(255)"`
	ImgURL         string `json:"imgUrl" gorm:"type:varchar(500);not null" validate:"required"`
	Representative bool   `json:"repImgYn"`
}

func (im *ItemImage) BeforeCreate(tx *gorm.DB) error {
	if im.ID == "" {
		im.ID = uuid.NewString()
	}
	return nil
}
