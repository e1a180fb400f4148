// Package store 目录服务的数据访问层，每个实体一组方法。
//
// 依赖其他行的派生字段 (唯一主图、商品评分、订单总额) 都在事务里先锁父行再计算，
// 同一父行上的并发写由数据库串行化。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"reflect"

	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/pkg/mq"
	"go-modelsdemo/pkg/sequence"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalid            = errors.New("invalid input")
	ErrConflict           = errors.New("conflicts with an existing record")
	ErrCannotCancel       = errors.New("order can no longer be cancelled")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// 事件 routing key
const (
	EventReviewSaved    = "review.saved"
	EventReviewDeleted  = "review.deleted"
	EventOrderSaved     = "order.saved"
	EventOrderCancelled = "order.cancelled"
	EventPrimaryImage   = "image.primary_changed"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal 字段按 float64 校验 (gte=0 等)
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := d.Float64()
			return f
		case decimal.NullDecimal:
			if d.Valid {
				f, _ := d.Decimal.Float64()
				return f
			}
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})
	return v
}

func validateEntity(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

type Store struct {
	db  *gorm.DB
	seq sequence.Generator
	pub mq.Publisher
}

type Option func(*Store)

// WithPublisher 写入提交后发送领域事件
func WithPublisher(p mq.Publisher) Option {
	return func(s *Store) { s.pub = p }
}

// WithSequence 设置订单号生成器
func WithSequence(g sequence.Generator) Option {
	return func(s *Store) { s.seq = g }
}

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, seq: sequence.UUIDGenerator{}, pub: mq.NopPublisher{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate 建表，支持部分索引的数据库再建唯一主图索引
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Product{},
		&model.ProductImage{},
		&model.Review{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return err
	}

	// MySQL 不支持部分索引，只靠事务保证
	if s.db.Dialector.Name() == "mysql" {
		return nil
	}
	return s.db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_primary_image_per_product
		ON demo_product_images (product_id) WHERE is_primary`).Error
}

// Ping 检查数据库连接
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) publish(ctx context.Context, key string, payload interface{}) {
	if err := s.pub.Publish(ctx, key, payload); err != nil {
		log.Printf("[Store] publish %s failed: %v", key, err)
	}
}

// translate 把 gorm 错误转换为 store 的哨兵错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return err
}

// updateAll 更新除 created_at、omit 列和关联以外的所有列，行不存在返回 ErrNotFound
func updateAll(tx *gorm.DB, value interface{}, omit ...string) error {
	omit = append(omit, "created_at", clause.Associations)
	res := tx.Model(value).Select("*").Omit(omit...).Updates(value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// lockProduct 商品行加 FOR UPDATE 锁 (sqlite 忽略，本身就串行写)，不存在返回 ErrNotFound
func lockProduct(tx *gorm.DB, id uint) error {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&p, id).Error
	if err != nil {
		return fmt.Errorf("product %d: %w", id, translate(err))
	}
	return nil
}

func lockOrder(tx *gorm.DB, id uint) (*model.Order, error) {
	var o model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, translate(err))
	}
	return &o, nil
}

func mustExist(tx *gorm.DB, value interface{}, id uint) error {
	var n int64
	if err := tx.Model(value).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// recomputeRating 商品评分 = 全部评价的平均分，保留两位小数 (银行家舍入)，没有评价时为 0
func recomputeRating(tx *gorm.DB, productID uint) error {
	var avg sql.NullFloat64
	err := tx.Model(&model.Review{}).Select("AVG(rating)").Where("product_id = ?", productID).Row().Scan(&avg)
	if err != nil {
		return err
	}
	rating := 0.0
	if avg.Valid {
		rating = decimal.NewFromFloat(avg.Float64).RoundBank(2).InexactFloat64()
	}
	return tx.Model(&model.Product{}).Where("id = ?", productID).UpdateColumn("rating", rating).Error
}

// recomputeTotal 订单总额 = 明细 total_price 之和，用 decimal 累加避免浮点误差
func recomputeTotal(tx *gorm.DB, orderID uint) error {
	rows, err := tx.Model(&model.OrderItem{}).Select("total_price").Where("order_id = ?", orderID).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var line decimal.Decimal
		if err := rows.Scan(&line); err != nil {
			return err
		}
		total = total.Add(line)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return tx.Model(&model.Order{}).Where("id = ?", orderID).UpdateColumn("total_amount", total.Round(2)).Error
}

// countBy 按 column 分组计数
func countBy(q *gorm.DB, column string) (map[uint]int64, error) {
	var rows []struct {
		GroupKey uint
		Total    int64
	}
	err := q.Select(column + " AS group_key, COUNT(*) AS total").Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.GroupKey] = r.Total
	}
	return counts, nil
}
