package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderStatusNames = map[OrderStatus]string{
	OrderPending:    "Pending",
	OrderProcessing: "Processing",
	OrderShipped:    "Shipped",
	OrderDelivered:  "Delivered",
	OrderCancelled:  "Cancelled",
}

// Display 状态的展示名称
func (s OrderStatus) Display() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return string(s)
}

// Order 订单主表
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number" validate:"required,max=20"`
	UserID          uint            `gorm:"not null;index:idx_order_user_status,priority:1" json:"user_id" validate:"required"`
	User            *User           `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index:idx_order_user_status,priority:2;index:idx_order_status_created,priority:1" json:"status" validate:"oneof=pending processing shipped delivered cancelled"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address" validate:"required"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"index:idx_order_status_created,priority:2" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "demo_orders"
}

// CanCancel 待处理与处理中的订单可以取消
func (o *Order) CanCancel() bool {
	return o.Status == OrderPending || o.Status == OrderProcessing
}

// ItemsCount 明细数量，需要先 Preload Items
func (o *Order) ItemsCount() int {
	return len(o.Items)
}

// OrderItem 订单明细表
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index:idx_item_order_product,priority:1" json:"order_id" validate:"required"`
	Order      *Order          `json:"-"`
	ProductID  uint            `gorm:"not null;index:idx_item_order_product,priority:2" json:"product_id" validate:"required"`
	Product    *Product        `json:"product,omitempty"`
	Quantity   uint            `gorm:"not null;default:1" json:"quantity" validate:"min=1"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price" validate:"gte=0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
}

func (OrderItem) TableName() string {
	return "demo_order_items"
}

// ComputeTotal total_price = quantity × unit_price，覆盖调用方传入的值
func (i *OrderItem) ComputeTotal() {
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// BeforeSave gorm 钩子，每次 Create/Save 都重算小计
func (i *OrderItem) BeforeSave(tx *gorm.DB) error {
	i.ComputeTotal()
	return nil
}
