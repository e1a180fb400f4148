package store

import (
	"context"

	"go-modelsdemo/apps/catalog/model"

	"gorm.io/gorm"
)

const DashboardListSize = 5

// Dashboard 首页统计与推荐列表
type Dashboard struct {
	TotalCategories int64
	TotalProducts   int64
	TotalReviews    int64
	TotalOrders     int64
	Featured        []model.Product
	Recent          []model.Product
	TopRated        []model.Product
}

func (s *Store) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	d := &Dashboard{}

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&model.Category{}, &d.TotalCategories},
		{&model.Product{}, &d.TotalProducts},
		{&model.Review{}, &d.TotalReviews},
		{&model.Order{}, &d.TotalOrders},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	lists := []struct {
		dst   *[]model.Product
		scope func(*gorm.DB) *gorm.DB
	}{
		{&d.Featured, func(q *gorm.DB) *gorm.DB {
			return q.Where("is_featured = ?", true).Order("created_at DESC, id DESC")
		}},
		{&d.Recent, func(q *gorm.DB) *gorm.DB { return q.Order("created_at DESC, id DESC") }},
		{&d.TopRated, func(q *gorm.DB) *gorm.DB { return q.Order("rating DESC, id DESC") }},
	}
	for _, l := range lists {
		*l.dst = make([]model.Product, 0, DashboardListSize)
		err := db.Scopes(published, l.scope).Preload("Category").Limit(DashboardListSize).Find(l.dst).Error
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}
