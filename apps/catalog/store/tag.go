package store

import (
	"context"

	"go-modelsdemo/apps/catalog/model"

	"gorm.io/gorm"
)

// TagSummary 标签及其关联的商品数量
type TagSummary struct {
	model.Tag
	ProductCount int64 `json:"product_count"`
}

var tagList = listSpec{
	search: []string{"name", "slug"},
	order:  "name ASC",
}

// TagsWithCounts 全部标签按名称排序，附带关联商品数
func (s *Store) TagsWithCounts(ctx context.Context) ([]TagSummary, error) {
	db := s.db.WithContext(ctx)
	var tags []model.Tag
	if err := db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	counts, err := countBy(db.Table("demo_product_tags"), "tag_id")
	if err != nil {
		return nil, err
	}

	rows := make([]TagSummary, len(tags))
	for i, t := range tags {
		rows[i] = TagSummary{Tag: t, ProductCount: counts[t.ID]}
	}
	return rows, nil
}

func (s *Store) ListTags(ctx context.Context, opts ListOptions) ([]model.Tag, int64, error) {
	return listPage[model.Tag](s.db.WithContext(ctx), tagList, opts)
}

func (s *Store) GetTag(ctx context.Context, id uint) (*model.Tag, error) {
	var t model.Tag
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// SaveTag slug 为空时由名称生成，颜色为空时用默认色
func (s *Store) SaveTag(ctx context.Context, t *model.Tag) error {
	if t.Slug == "" {
		t.Slug = model.Slugify(t.Name)
	}
	if t.Color == "" {
		t.Color = model.DefaultTagColor
	}
	if err := validateEntity(t); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	if t.ID == 0 {
		return translate(db.Omit("Products").Create(t).Error)
	}
	return updateAll(db, t)
}

// DeleteTag 先解除与商品的关联再删除标签
func (s *Store) DeleteTag(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Tag{}, id); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM demo_product_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, id).Error
	})
}
