package model

import "time"

const DefaultTagColor = "#007bff"

// Tag 商品标签，与 Product 多对多
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required,max=50"`
	Slug      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug" validate:"required,max=50"`
	Color     string    `gorm:"type:varchar(7);not null;default:'#007bff'" json:"color" validate:"required,hexcolor,max=7"`
	CreatedAt time.Time `json:"created_at"`
	Products  []Product `gorm:"many2many:demo_product_tags;constraint:OnDelete:CASCADE" json:"-"`
}

func (Tag) TableName() string {
	return "demo_tags"
}
