package store

import (
	"context"
	"fmt"

	"go-modelsdemo/apps/catalog/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const RelatedLimit = 4

var productList = listSpec{
	filters: map[string]filterKind{"category_id": kindUint, "status": kindString, "is_featured": kindBool},
	search:  []string{"name", "description", "slug"},
	order:   "created_at DESC, id DESC",
}

// imagesInOrder 图片按 order 再按创建时间排序；order 是保留字需要转义
func imagesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).Order("created_at ASC, id ASC")
}

func tagsByName(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}

func published(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", model.ProductPublished)
}

// ListPublishedProducts 按条件列出已发布商品，预加载分类
func (s *Store) ListPublishedProducts(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	products := make([]model.Product, 0)
	q := s.db.WithContext(ctx).Scopes(published).Preload("Category")
	err := f.apply(q).Find(&products).Error
	return products, err
}

// GetPublishedProduct 已发布商品详情，含分类、图片、标签；草稿和已归档返回 ErrNotFound
func (s *Store) GetPublishedProduct(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).Scopes(published).
		Preload("Category").
		Preload("Images", imagesInOrder).
		Preload("Tags", tagsByName).
		First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// RelatedProducts 同分类的其他已发布商品，最多 limit 个
func (s *Store) RelatedProducts(ctx context.Context, p *model.Product, limit int) ([]model.Product, error) {
	related := make([]model.Product, 0, limit)
	err := s.db.WithContext(ctx).Scopes(published).
		Preload("Category").
		Where("category_id = ? AND id <> ?", p.CategoryID, p.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&related).Error
	return related, err
}

func (s *Store) ListProducts(ctx context.Context, opts ListOptions) ([]model.Product, int64, error) {
	return listPage[model.Product](s.db.WithContext(ctx), productList, opts, "Category")
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", imagesInOrder).
		Preload("Tags", tagsByName).
		First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// SaveProduct slug 为空时由名称生成，状态默认草稿。
// rating 只由评价维护，这里从不写入
func (s *Store) SaveProduct(ctx context.Context, p *model.Product) error {
	if p.Slug == "" {
		p.Slug = model.Slugify(p.Name)
	}
	if p.Status == "" {
		p.Status = model.ProductDraft
	}
	if err := validateEntity(p); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Category{}, p.CategoryID); err != nil {
			return fmt.Errorf("category %d: %w", p.CategoryID, err)
		}
		if p.ID == 0 {
			p.Rating = 0
			return translate(tx.Omit(clause.Associations).Create(p).Error)
		}
		if err := updateAll(tx, p, "rating"); err != nil {
			return err
		}
		return tx.Select("rating").Take(p).Error
	})
}

// SetProductTags 用 tagIDs 替换商品的标签
func (s *Store) SetProductTags(ctx context.Context, productID uint, tagIDs []uint) (*model.Product, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product
		if err := tx.First(&p, productID).Error; err != nil {
			return translate(err)
		}
		tags := make([]model.Tag, 0, len(tagIDs))
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
		}
		if len(tags) != len(uniqueIDs(tagIDs)) {
			return fmt.Errorf("%w: unknown tag in %v", ErrInvalid, tagIDs)
		}
		return tx.Model(&p).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID)
}

// DeleteProduct 删除商品及其图片、评价、订单明细和标签关联
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Product{}, id); err != nil {
			return err
		}
		return deleteProducts(tx, []uint{id})
	})
}

func deleteProducts(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	// 删除订单明细后要重算受影响订单的总额
	var orderIDs []uint
	if err := tx.Model(&model.OrderItem{}).Where("product_id IN ?", ids).Distinct().Pluck("order_id", &orderIDs).Error; err != nil {
		return err
	}

	steps := []func() error{
		func() error { return tx.Where("product_id IN ?", ids).Delete(&model.ProductImage{}).Error },
		func() error { return tx.Where("product_id IN ?", ids).Delete(&model.Review{}).Error },
		func() error { return tx.Where("product_id IN ?", ids).Delete(&model.OrderItem{}).Error },
		func() error { return tx.Exec("DELETE FROM demo_product_tags WHERE product_id IN ?", ids).Error },
		func() error { return tx.Where("id IN ?", ids).Delete(&model.Product{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	for _, orderID := range orderIDs {
		if err := recomputeTotal(tx, orderID); err != nil {
			return err
		}
	}
	return nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
