package store

import (
	"context"
	"fmt"

	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/pkg/sequence"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderList = listSpec{
	filters: map[string]filterKind{"status": kindString, "user_id": kindUint},
	search:  []string{"order_number", "shipping_address"},
	order:   "created_at DESC, id DESC",
}

var orderItemList = listSpec{
	filters: map[string]filterKind{"order_id": kindUint, "product_id": kindUint},
	order:   "order_id DESC, id ASC",
}

type orderEvent struct {
	OrderID     uint              `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount string            `json:"total_amount"`
}

func newOrderEvent(o *model.Order) orderEvent {
	return orderEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		TotalAmount: o.TotalAmount.StringFixed(2),
	}
}

// ListOrders 按条件列出订单，预加载用户和明细。权限由调用方检查
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	q := s.db.WithContext(ctx).Preload("User").Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
	err := f.apply(q).Find(&orders).Error
	return orders, err
}

func (s *Store) ListOrdersPage(ctx context.Context, opts ListOptions) ([]model.Order, int64, error) {
	return listPage[model.Order](s.db.WithContext(ctx), orderList, opts, "User", "Items")
}

func (s *Store) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// SaveOrder 新建或更新订单。新订单没有订单号时自动生成，可以带明细一起创建；
// 总额总是由明细重算，订单号创建后不可修改
func (s *Store) SaveOrder(ctx context.Context, o *model.Order) error {
	if o.Status == "" {
		o.Status = model.OrderPending
	}
	switch {
	case o.ID == 0 && o.OrderNumber == "":
		number, err := s.seq.Next(ctx)
		if err != nil {
			return fmt.Errorf("generate order number: %w", err)
		}
		o.OrderNumber = number
	case o.ID != 0:
		// 订单号创建后不可改，更新时沿用库里的值
		var existing model.Order
		if err := s.db.WithContext(ctx).Select("id", "order_number").First(&existing, o.ID).Error; err != nil {
			return translate(err)
		}
		o.OrderNumber = existing.OrderNumber
	}
	if len(o.OrderNumber) > sequence.MaxLength {
		return fmt.Errorf("%w: order number longer than %d", ErrInvalid, sequence.MaxLength)
	}
	if err := validateEntity(o); err != nil {
		return err
	}
	for i := range o.Items {
		item := &o.Items[i]
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		item.ComputeTotal()
		if err := validate.StructExcept(item, "OrderID"); err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrInvalid, i, err)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.User{}, o.UserID); err != nil {
			return fmt.Errorf("user %d: %w", o.UserID, err)
		}
		if o.ID == 0 {
			items := o.Items
			o.Items = nil
			o.TotalAmount = decimal.Zero
			if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
				return translate(err)
			}
			for i := range items {
				items[i].OrderID = o.ID
				if err := mustExist(tx, &model.Product{}, items[i].ProductID); err != nil {
					return fmt.Errorf("product %d: %w", items[i].ProductID, err)
				}
			}
			if len(items) > 0 {
				if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
					return translate(err)
				}
			}
			o.Items = items
		} else if err := updateAll(tx, o, "order_number", "total_amount"); err != nil {
			return err
		}

		if err := recomputeTotal(tx, o.ID); err != nil {
			return err
		}
		return tx.Select("order_number", "total_amount").Take(o).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, EventOrderSaved, newOrderEvent(o))
	return nil
}

// CancelOrder 待处理/处理中的订单改为已取消
func (s *Store) CancelOrder(ctx context.Context, id uint) (*model.Order, error) {
	var o *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if o, err = lockOrder(tx, id); err != nil {
			return err
		}
		if !o.CanCancel() {
			return fmt.Errorf("order %s is %s: %w", o.OrderNumber, o.Status, ErrCannotCancel)
		}
		o.Status = model.OrderCancelled
		return tx.Model(o).Update("status", o.Status).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventOrderCancelled, newOrderEvent(o))
	return o, nil
}

// DeleteOrder 删除订单及明细
func (s *Store) DeleteOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Order{}, id); err != nil {
			return err
		}
		return deleteOrders(tx, []uint{id})
	})
}

func deleteOrders(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("order_id IN ?", ids).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Order{}).Error
}

func (s *Store) ListOrderItems(ctx context.Context, opts ListOptions) ([]model.OrderItem, int64, error) {
	return listPage[model.OrderItem](s.db.WithContext(ctx), orderItemList, opts, "Product")
}

func (s *Store) GetOrderItem(ctx context.Context, id uint) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := s.db.WithContext(ctx).Preload("Product").First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// SaveOrderItem 保存明细，total_price = quantity × unit_price (忽略传入值)，
// 并重算订单总额
func (s *Store) SaveOrderItem(ctx context.Context, item *model.OrderItem) error {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	item.ComputeTotal()
	if err := validateEntity(item); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, item.OrderID); err != nil {
			return err
		}
		if err := mustExist(tx, &model.Product{}, item.ProductID); err != nil {
			return fmt.Errorf("product %d: %w", item.ProductID, err)
		}

		stale := uint(0)
		if item.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
				return translate(err)
			}
		} else {
			var old model.OrderItem
			if err := tx.Select("id", "order_id").First(&old, item.ID).Error; err != nil {
				return translate(err)
			}
			if old.OrderID != item.OrderID {
				stale = old.OrderID
			}
			if err := updateAll(tx, item); err != nil {
				return err
			}
		}

		if stale != 0 {
			if err := recomputeTotal(tx, stale); err != nil {
				return err
			}
		}
		return recomputeTotal(tx, item.OrderID)
	})
}

func (s *Store) DeleteOrderItem(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.OrderItem
		if err := tx.First(&item, id).Error; err != nil {
			return translate(err)
		}
		if _, err := lockOrder(tx, item.OrderID); err != nil {
			return err
		}
		if err := tx.Delete(&model.OrderItem{}, id).Error; err != nil {
			return err
		}
		return recomputeTotal(tx, item.OrderID)
	})
}
