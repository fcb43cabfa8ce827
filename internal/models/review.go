package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating with a comment left by a user on an item.
type Review struct {
	ID         string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ItemID     string        `json:"itemId" gorm:"type:varchar(36);index;not null"`
	UserID     string        `json:"userId" gorm:"type:varchar(36);index;not null"`
	ReviewDate time.Time     `json:"reviewDate" gorm:"not null"`
	Content    string        `json:"reviewContent" gorm:"type:text;not null"`
	Rating     int           `json:"rating" gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Images     []ReviewImage `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	Item       *Item         `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	User       *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type ReviewImage struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReviewID   string `json:"reviewId" gorm:"type:varchar(36);index;not null"`
	OriImgName string `json:"oriImgName" gorm:"type:varchar(255)"`
	ImgURL     string `json:"imgUrl" gorm:"type:varchar(500);not null"`
}

func (im *ReviewImage) BeforeCreate(tx *gorm.DB) error {
	if im.ID == "" {
		im.ID = uuid.NewString()
	}
	return nil
}
