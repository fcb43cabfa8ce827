package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Category is a free-form item label. Names are unique; items and
// categories are linked through item_categories.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"categoryName" gorm:"type:varchar(50);uniqueIndex;not null" validate:"required,max=50"`
	CreatedAt time.Time `json:"-"`
}

// UnmarshalJSON accepts either a bare name or a category object.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = Category{Name: strings.TrimSpace(name)}
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Category(p)
	c.Name = strings.TrimSpace(c.Name)
	return nil
}
