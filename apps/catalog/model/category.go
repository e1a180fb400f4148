package model

import "time"

// Category 商品分类
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description *string   `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;index:idx_category_active_created,priority:1" json:"is_active"`
	CreatedAt   time.Time `gorm:"index:idx_category_active_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Products    []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "demo_categories"
}
