package handler

import (
	"time"

	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/apps/catalog/store"

	"github.com/shopspring/decimal"
)

// 展示层结构体: 金额统一保留两位小数输出为字符串

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type categoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type categoryView struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	IsActive     bool      `json:"is_active"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func newCategoryView(c store.CategorySummary) categoryView {
	return categoryView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		IsActive:     c.IsActive,
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt,
	}
}

type productView struct {
	ID                 uint         `json:"id"`
	Name               string       `json:"name"`
	Slug               string       `json:"slug"`
	Category           *categoryRef `json:"category"`
	Description        string       `json:"description"`
	Price              string       `json:"price"`
	DiscountPrice      *string      `json:"discount_price"`
	FinalPrice         string       `json:"final_price"`
	DiscountPercentage string       `json:"discount_percentage"`
	IsOnSale           bool         `json:"is_on_sale"`
	IsInStock          bool         `json:"is_in_stock"`
	StockQuantity      uint         `json:"stock_quantity"`
	Rating             float64      `json:"rating"`
	Status             string       `json:"status"`
	IsFeatured         bool         `json:"is_featured"`
	CreatedAt          time.Time    `json:"created_at"`
}

func newProductView(p *model.Product) productView {
	v := productView{
		ID:                 p.ID,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        p.Description,
		Price:              money(p.Price),
		FinalPrice:         money(p.FinalPrice()),
		DiscountPercentage: money(p.DiscountPercentage()),
		IsOnSale:           p.IsOnSale(),
		IsInStock:          p.IsInStock(),
		StockQuantity:      p.StockQuantity,
		Rating:             p.Rating,
		Status:             string(p.Status),
		IsFeatured:         p.IsFeatured,
		CreatedAt:          p.CreatedAt,
	}
	if p.HasDiscount() {
		d := money(p.DiscountPrice.Decimal)
		v.DiscountPrice = &d
	}
	if p.Category != nil {
		v.Category = &categoryRef{ID: p.Category.ID, Name: p.Category.Name}
	}
	return v
}

func newProductViews(ps []model.Product) []productView {
	out := make([]productView, len(ps))
	for i := range ps {
		out[i] = newProductView(&ps[i])
	}
	return out
}

type imageView struct {
	ID        uint   `json:"id"`
	Image     string `json:"image"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	Order     uint16 `json:"order"`
}

type tagView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Color        string `json:"color"`
	ProductCount *int64 `json:"product_count,omitempty"`
}

func newTagView(t *model.Tag) tagView {
	return tagView{ID: t.ID, Name: t.Name, Slug: t.Slug, Color: t.Color}
}

type userRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func newUserRef(u *model.User) *userRef {
	if u == nil {
		return nil
	}
	return &userRef{ID: u.ID, Username: u.Username}
}

type productRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type reviewView struct {
	ID                 uint        `json:"id"`
	Product            *productRef `json:"product,omitempty"`
	User               *userRef    `json:"user"`
	Rating             uint8       `json:"rating"`
	Title              string      `json:"title"`
	Comment            string      `json:"comment"`
	IsVerifiedPurchase bool        `json:"is_verified_purchase"`
	CreatedAt          time.Time   `json:"created_at"`
}

func newReviewView(r *model.Review) reviewView {
	v := reviewView{
		ID:                 r.ID,
		User:               newUserRef(r.User),
		Rating:             r.Rating,
		Title:              r.Title,
		Comment:            r.Comment,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		CreatedAt:          r.CreatedAt,
	}
	if r.Product != nil {
		v.Product = &productRef{ID: r.Product.ID, Name: r.Product.Name, Slug: r.Product.Slug}
	}
	return v
}

func newReviewViews(rs []model.Review) []reviewView {
	out := make([]reviewView, len(rs))
	for i := range rs {
		out[i] = newReviewView(&rs[i])
	}
	return out
}

type productDetailView struct {
	productView
	Images  []imageView   `json:"images"`
	Tags    []tagView     `json:"tags"`
	Reviews []reviewView  `json:"reviews"`
	Related []productView `json:"related_products"`
}

func newProductDetailView(p *model.Product, reviews []model.Review, related []model.Product) productDetailView {
	v := productDetailView{
		productView: newProductView(p),
		Images:      make([]imageView, len(p.Images)),
		Tags:        make([]tagView, len(p.Tags)),
		Reviews:     newReviewViews(reviews),
		Related:     newProductViews(related),
	}
	for i, img := range p.Images {
		v.Images[i] = imageView{ID: img.ID, Image: img.Image, AltText: img.AltText, IsPrimary: img.IsPrimary, Order: img.Order}
	}
	for i := range p.Tags {
		v.Tags[i] = newTagView(&p.Tags[i])
	}
	return v
}

type orderItemView struct {
	ID         uint   `json:"id"`
	ProductID  uint   `json:"product_id"`
	Quantity   uint   `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

type orderView struct {
	ID              uint            `json:"id"`
	OrderNumber     string          `json:"order_number"`
	User            *userRef        `json:"user"`
	Status          string          `json:"status"`
	StatusDisplay   string          `json:"status_display"`
	TotalAmount     string          `json:"total_amount"`
	ItemsCount      int             `json:"items_count"`
	CanCancel       bool            `json:"can_cancel"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes"`
	Items           []orderItemView `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

func newOrderView(o *model.Order) orderView {
	v := orderView{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		User:            newUserRef(o.User),
		Status:          string(o.Status),
		StatusDisplay:   o.Status.Display(),
		TotalAmount:     money(o.TotalAmount),
		ItemsCount:      o.ItemsCount(),
		CanCancel:       o.CanCancel(),
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Items:           make([]orderItemView, len(o.Items)),
		CreatedAt:       o.CreatedAt,
	}
	for i, item := range o.Items {
		v.Items[i] = orderItemView{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  money(item.UnitPrice),
			TotalPrice: money(item.TotalPrice),
		}
	}
	return v
}

type dashboardView struct {
	TotalCategories  int64         `json:"total_categories"`
	TotalProducts    int64         `json:"total_products"`
	TotalReviews     int64         `json:"total_reviews"`
	TotalOrders      int64         `json:"total_orders"`
	FeaturedProducts []productView `json:"featured_products"`
	RecentProducts   []productView `json:"recent_products"`
	TopRatedProducts []productView `json:"top_rated_products"`
}

func newDashboardView(d *store.Dashboard) dashboardView {
	return dashboardView{
		TotalCategories:  d.TotalCategories,
		TotalProducts:    d.TotalProducts,
		TotalReviews:     d.TotalReviews,
		TotalOrders:      d.TotalOrders,
		FeaturedProducts: newProductViews(d.Featured),
		RecentProducts:   newProductViews(d.Recent),
		TopRatedProducts: newProductViews(d.TopRated),
	}
}
