package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderFemale = "F"
	GenderMale   = "M"
)

// Pet is a profile a user keeps for one of their animals.
type Pet struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"userId" gorm:"type:varchar(36);index;not null"`
	Name      string     `json:"petName" gorm:"type:varchar(50);not null"`
	PetType   string     `json:"petType" gorm:"type:varchar(50);not null"`
	Breed     string     `json:"breed" gorm:"type:varchar(100);not null"`
	Gender    string     `json:"gender" gorm:"type:varchar(1);not null"`
	Age       int        `json:"age" gorm:"not null;check:chk_pets_age,age >= 0"`
	Images    []PetImage `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (p *Pet) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PetImage struct {
	ID             string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PetID          string `json:"petId" gorm:"type:varchar(36);index;not null"`
	OriImgName     string `json:"oriImgName" gorm:"type:varchar(255)"`
	ImgURL         string `json:"imgUrl" gorm:"type:varchar(500);not null"`
	Representative bool   `json:"repImgYn"`
}

func (im *PetImage) BeforeCreate(tx *gorm.DB) error {
	if im.ID == "" {
		im.ID = uuid.NewString()
	}
	return nil
}
