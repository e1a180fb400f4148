package store

import (
	"context"

	"go-modelsdemo/apps/catalog/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategorySummary 分类及其商品数量
type CategorySummary struct {
	model.Category
	ProductCount int64 `json:"product_count"`
}

var categoryList = listSpec{
	filters: map[string]filterKind{"is_active": kindBool},
	search:  []string{"name", "description"},
	order:   "name ASC",
}

// ActiveCategories 启用的分类按名称排序，附带实时商品数
func (s *Store) ActiveCategories(ctx context.Context) ([]CategorySummary, error) {
	db := s.db.WithContext(ctx)
	var categories []model.Category
	if err := db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	counts, err := countBy(db.Model(&model.Product{}), "category_id")
	if err != nil {
		return nil, err
	}

	rows := make([]CategorySummary, len(categories))
	for i, c := range categories {
		rows[i] = CategorySummary{Category: c, ProductCount: counts[c.ID]}
	}
	return rows, nil
}

func (s *Store) ListCategories(ctx context.Context, opts ListOptions) ([]model.Category, int64, error) {
	return listPage[model.Category](s.db.WithContext(ctx), categoryList, opts)
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// SaveCategory ID 为 0 时新建，否则整体更新
func (s *Store) SaveCategory(ctx context.Context, c *model.Category) error {
	if err := validateEntity(c); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	if c.ID == 0 {
		return translate(db.Omit(clause.Associations).Create(c).Error)
	}
	return updateAll(db, c)
}

// DeleteCategory 删除分类及其商品，商品下的图片、评价、订单明细一并删除
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Category{}, id); err != nil {
			return err
		}
		var productIDs []uint
		if err := tx.Model(&model.Product{}).Where("category_id = ?", id).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if err := deleteProducts(tx, productIDs); err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, id).Error
	})
}
