package store

import (
	"context"

	"go-modelsdemo/apps/catalog/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var reviewList = listSpec{
	filters: map[string]filterKind{
		"product_id":           kindUint,
		"user_id":              kindUint,
		"rating":               kindUint,
		"is_verified_purchase": kindBool,
	},
	search: []string{"title", "comment"},
	order:  "created_at DESC, id DESC",
}

type reviewEvent struct {
	ReviewID  uint    `json:"review_id"`
	ProductID uint    `json:"product_id"`
	Rating    float64 `json:"product_rating"`
}

// ListReviews 按条件列出评价，预加载商品和用户
func (s *Store) ListReviews(ctx context.Context, f ReviewFilter) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	q := s.db.WithContext(ctx).Preload("Product").Preload("User")
	err := f.apply(q).Find(&reviews).Error
	return reviews, err
}

// ProductReviews 某商品的评价，最新的在前
func (s *Store) ProductReviews(ctx context.Context, productID uint) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	err := s.db.WithContext(ctx).Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *Store) ListReviewsPage(ctx context.Context, opts ListOptions) ([]model.Review, int64, error) {
	return listPage[model.Review](s.db.WithContext(ctx), reviewList, opts, "Product", "User")
}

func (s *Store) GetReview(ctx context.Context, id uint) (*model.Review, error) {
	var r model.Review
	if err := s.db.WithContext(ctx).Preload("Product").Preload("User").First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// SaveReview 保存评价并重算商品评分 (平均分保留两位)。
// 评价换了商品时，新旧两个商品都要重算
func (s *Store) SaveReview(ctx context.Context, r *model.Review) error {
	if err := validateEntity(r); err != nil {
		return err
	}

	var rating float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.User{}, r.UserID); err != nil {
			return err
		}
		if err := lockProduct(tx, r.ProductID); err != nil {
			return err
		}

		stale := uint(0)
		if r.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
				return translate(err)
			}
		} else {
			var old model.Review
			if err := tx.Select("id", "product_id").First(&old, r.ID).Error; err != nil {
				return translate(err)
			}
			if old.ProductID != r.ProductID {
				stale = old.ProductID
			}
			if err := updateAll(tx, r); err != nil {
				return err
			}
		}

		if stale != 0 {
			if err := recomputeRating(tx, stale); err != nil {
				return err
			}
		}
		if err := recomputeRating(tx, r.ProductID); err != nil {
			return err
		}
		return tx.Model(&model.Product{}).Where("id = ?", r.ProductID).Select("rating").Scan(&rating).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, EventReviewSaved, reviewEvent{ReviewID: r.ID, ProductID: r.ProductID, Rating: rating})
	return nil
}

// DeleteReview 删除评价并重算商品评分
func (s *Store) DeleteReview(ctx context.Context, id uint) error {
	var r model.Review
	var rating float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&r, id).Error; err != nil {
			return translate(err)
		}
		if err := lockProduct(tx, r.ProductID); err != nil {
			return err
		}
		if err := tx.Delete(&model.Review{}, id).Error; err != nil {
			return err
		}
		if err := recomputeRating(tx, r.ProductID); err != nil {
			return err
		}
		return tx.Model(&model.Product{}).Where("id = ?", r.ProductID).Select("rating").Scan(&rating).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, EventReviewDeleted, reviewEvent{ReviewID: id, ProductID: r.ProductID, Rating: rating})
	return nil
}
