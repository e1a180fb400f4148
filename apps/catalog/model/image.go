package model

import "time"

// ProductImage 商品图片，每个商品最多一张主图
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index:idx_image_product_primary,priority:1" json:"product_id" validate:"required"`
	Image     string    `gorm:"type:varchar(255);not null" json:"image" validate:"required,max=255"`
	AltText   string    `gorm:"type:varchar(200)" json:"alt_text" validate:"max=200"`
	IsPrimary bool      `gorm:"not null;default:false;index:idx_image_product_primary,priority:2" json:"is_primary"`
	Order     uint16    `gorm:"column:order;not null;default:0;index" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "demo_product_images"
}
