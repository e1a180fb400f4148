package store

import (
	"fmt"
	"strconv"
	"strings"

	"go-modelsdemo/apps/catalog/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductSort 商品列表的排序参数
type ProductSort string

const (
	SortNewest    ProductSort = "-created_at"
	SortPriceAsc  ProductSort = "price"
	SortPriceDesc ProductSort = "-price"
	SortRating    ProductSort = "rating"
)

// ParseProductSort 未知的值按最新排序
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return ProductSort(s)
	}
	return SortNewest
}

func (s ProductSort) orderBy() string {
	switch s {
	case SortPriceAsc:
		return "price ASC, id ASC"
	case SortPriceDesc:
		return "price DESC, id DESC"
	case SortRating:
		return "rating DESC, id DESC"
	}
	return "created_at DESC, id DESC"
}

// ProductFilter 商品列表过滤条件，nil 表示不过滤
type ProductFilter struct {
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Sort       ProductSort
}

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		q = q.Scopes(searchScope(f.Search, "name", "description"))
	}
	return q.Order(f.Sort.orderBy())
}

// ReviewFilter 评价列表过滤条件
type ReviewFilter struct {
	Rating       *uint8
	VerifiedOnly bool
}

func (f ReviewFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Rating != nil {
		q = q.Where("rating = ?", *f.Rating)
	}
	if f.VerifiedOnly {
		q = q.Where("is_verified_purchase = ?", true)
	}
	return q.Order("created_at DESC, id DESC")
}

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	Status model.OrderStatus
}

func (f OrderFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q.Order("created_at DESC, id DESC")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchScope 任一列包含 term 即匹配，不区分大小写
func searchScope(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions 后台列表参数。Filters 是按列名的原始查询值，只应用实体声明过的列
type ListOptions struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// Normalize 套用默认和最大分页大小
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

type filterKind int

const (
	kindString filterKind = iota
	kindUint
	kindBool
)

// listSpec 后台列表的可过滤字段、可搜索字段与默认排序
type listSpec struct {
	filters map[string]filterKind
	search  []string
	order   interface{}
}

func (spec listSpec) scope(opts ListOptions) (func(*gorm.DB) *gorm.DB, error) {
	var conds []func(*gorm.DB) *gorm.DB
	for col, raw := range opts.Filters {
		kind, ok := spec.filters[col]
		if !ok || raw == "" {
			continue
		}
		var value interface{} = raw
		switch kind {
		case kindUint:
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a positive integer", ErrInvalid, col)
			}
			value = n
		case kindBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalid, col)
			}
			value = b
		}
		conds = append(conds, func(db *gorm.DB) *gorm.DB {
			return db.Where(col+" = ?", value)
		})
	}
	if opts.Search != "" && len(spec.search) > 0 {
		conds = append(conds, searchScope(opts.Search, spec.search...))
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(conds...)
	}, nil
}

// listPage 统计总数并取一页数据
func listPage[T any](db *gorm.DB, spec listSpec, opts ListOptions, preload ...string) ([]T, int64, error) {
	opts = opts.Normalize()
	filter, err := spec.scope(opts)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Scopes(filter)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if spec.order != nil {
		q = q.Order(spec.order)
	}
	items := make([]T, 0, opts.PageSize)
	err = q.Offset((opts.Page - 1) * opts.PageSize).Limit(opts.PageSize).Find(&items).Error
	return items, total, err
}
