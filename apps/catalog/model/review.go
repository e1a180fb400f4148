package model

import "time"

// Review 商品评价，同一用户对同一商品只能评价一次
type Review struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ProductID          uint      `gorm:"not null;uniqueIndex:unique_review_per_user_per_product,priority:1;index:idx_review_product_rating,priority:1" json:"product_id" validate:"required"`
	Product            *Product  `json:"product,omitempty"`
	UserID             uint      `gorm:"not null;uniqueIndex:unique_review_per_user_per_product,priority:2;index:idx_review_user_created,priority:1" json:"user_id" validate:"required"`
	User               *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Rating             uint8     `gorm:"not null;index:idx_review_product_rating,priority:2;index:idx_review_verified_rating,priority:2;check:review_rating_range,rating >= 1 AND rating <= 5" json:"rating" validate:"min=1,max=5"`
	Title              string    `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Comment            string    `gorm:"type:text;not null" json:"comment"`
	IsVerifiedPurchase bool      `gorm:"not null;default:false;index:idx_review_verified_rating,priority:1" json:"is_verified_purchase"`
	CreatedAt          time.Time `gorm:"index:idx_review_user_created,priority:2" json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "demo_reviews"
}
