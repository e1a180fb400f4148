package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductDraft     ProductStatus = "draft"
	ProductPublished ProductStatus = "published"
	ProductArchived  ProductStatus = "archived"
)

var hundred = decimal.NewFromInt(100)

// Product 商品
type Product struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Name          string              `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Slug          string              `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug" validate:"required,max=200"`
	CategoryID    uint                `gorm:"not null;index:idx_product_category_status,priority:1" json:"category_id" validate:"required"`
	Category      *Category           `json:"category,omitempty"`
	Description   string              `gorm:"type:text;not null" json:"description"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null;index;check:price_positive,price >= 0" json:"price" validate:"gte=0"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"discount_price" validate:"omitempty,gte=0"`
	StockQuantity uint                `gorm:"not null;default:0" json:"stock_quantity"`
	Rating        float64             `gorm:"not null;default:0;index;check:rating_range,rating >= 0 AND rating <= 5" json:"rating" validate:"gte=0,lte=5"`
	Status        ProductStatus       `gorm:"type:varchar(20);not null;default:'draft';index:idx_product_category_status,priority:2;index:idx_product_featured_status,priority:2" json:"status" validate:"oneof=draft published archived"`
	IsFeatured    bool                `gorm:"not null;default:false;index:idx_product_featured_status,priority:1" json:"is_featured"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`

	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Reviews    []Review       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Tags       []Tag          `gorm:"many2many:demo_product_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	OrderItems []OrderItem    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "demo_products"
}

// HasDiscount 是否设置了折扣价 (非 NULL)
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice.Valid
}

// FinalPrice 有折扣价用折扣价，否则用原价
func (p *Product) FinalPrice() decimal.Decimal {
	if p.HasDiscount() {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// DiscountPercentage ((原价 - 折扣价) / 原价) * 100，银行家舍入保留两位；
// 没有折扣价或原价为 0 时返回 0
func (p *Product) DiscountPercentage() decimal.Decimal {
	if !p.HasDiscount() || !p.Price.IsPositive() {
		return decimal.Zero
	}
	saved := p.Price.Sub(p.DiscountPrice.Decimal)
	return saved.Mul(hundred).Div(p.Price).RoundBank(2)
}

// IsOnSale 折扣价严格低于原价
func (p *Product) IsOnSale() bool {
	return p.HasDiscount() && p.DiscountPrice.Decimal.LessThan(p.Price)
}

func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

func (p *Product) IsPublished() bool {
	return p.Status == ProductPublished
}
