package store

import (
	"context"

	"go-modelsdemo/apps/catalog/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var imageList = listSpec{
	filters: map[string]filterKind{"product_id": kindUint, "is_primary": kindBool},
	search:  []string{"alt_text"},
	order: clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "product_id"}},
		{Column: clause.Column{Name: "order"}},
		{Column: clause.Column{Name: "created_at"}},
	}},
}

func (s *Store) ListImages(ctx context.Context, opts ListOptions) ([]model.ProductImage, int64, error) {
	return listPage[model.ProductImage](s.db.WithContext(ctx), imageList, opts)
}

func (s *Store) GetImage(ctx context.Context, id uint) (*model.ProductImage, error) {
	var img model.ProductImage
	if err := s.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, translate(err)
	}
	return &img, nil
}

// SaveImage 保存图片。设为主图时先锁住商品行，在同一事务里取消其他主图，
// 保证每个商品最多一张主图
func (s *Store) SaveImage(ctx context.Context, img *model.ProductImage) error {
	if err := validateEntity(img); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx, img.ProductID); err != nil {
			return err
		}
		if img.IsPrimary {
			err := tx.Model(&model.ProductImage{}).
				Where("product_id = ? AND is_primary = ? AND id <> ?", img.ProductID, true, img.ID).
				Update("is_primary", false).Error
			if err != nil {
				return err
			}
		}
		if img.ID == 0 {
			return translate(tx.Create(img).Error)
		}
		return updateAll(tx, img)
	})
	if err != nil {
		return err
	}

	if img.IsPrimary {
		s.publish(ctx, EventPrimaryImage, map[string]uint{"product_id": img.ProductID, "image_id": img.ID})
	}
	return nil
}

func (s *Store) DeleteImage(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.ProductImage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
