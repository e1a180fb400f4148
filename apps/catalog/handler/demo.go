package handler

import (
	"encoding/json"
	"net/http"

	"go-modelsdemo/apps/catalog/middleware"
	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/apps/catalog/store"
	"go-modelsdemo/pkg/etag"
	"go-modelsdemo/pkg/observability"
	"go-modelsdemo/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Dashboard GET /models-demo/ 首页统计
func (h *Handler) Dashboard(c *gin.Context) {
	m := observability.StartTiming(c.Request.Context(), "db", "dashboard")
	d, err := h.store.Dashboard(c.Request.Context())
	m.Stop()
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, newDashboardView(d))
}

// Categories GET /models-demo/categories/ 启用的分类及商品数
func (h *Handler) Categories(c *gin.Context) {
	rows, err := h.store.ActiveCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]categoryView, len(rows))
	for i, row := range rows {
		views[i] = newCategoryView(row)
	}
	response.Success(c, views)
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, badParam(name, "must be a decimal number")
	}
	return &d, nil
}

func productFilter(c *gin.Context) (store.ProductFilter, error) {
	f := store.ProductFilter{
		Search: c.Query("search"),
		Sort:   store.ParseProductSort(c.Query("sort")),
	}
	var err error
	if f.CategoryID, err = queryUint(c, "category"); err != nil {
		return f, err
	}
	if f.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return f, err
	}
	return f, nil
}

// Products GET /models-demo/products/ 已发布商品，支持 category、min_price、max_price、search、sort
func (h *Handler) Products(c *gin.Context) {
	f, err := productFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	m := observability.StartTiming(c.Request.Context(), "db", "product list")
	products, err := h.store.ListPublishedProducts(c.Request.Context(), f)
	m.Stop()
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"products": newProductViews(products),
		"filters": gin.H{
			"category":  c.Query("category"),
			"min_price": c.Query("min_price"),
			"max_price": c.Query("max_price"),
			"search":    f.Search,
			"sort":      string(f.Sort),
		},
	})
}

// ProductDetail GET /models-demo/products/:id/ 商品详情
// 响应带弱 ETag，If-None-Match 命中时返回 304
func (h *Handler) ProductDetail(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	ctx := c.Request.Context()

	m := observability.StartTiming(ctx, "db", "product detail")
	p, err := h.store.GetPublishedProduct(ctx, id)
	if err != nil {
		m.Stop()
		writeError(c, err)
		return
	}
	reviews, err := h.store.ProductReviews(ctx, p.ID)
	if err != nil {
		m.Stop()
		writeError(c, err)
		return
	}
	related, err := h.store.RelatedProducts(ctx, p, store.RelatedLimit)
	m.Stop()
	if err != nil {
		writeError(c, err)
		return
	}

	body, err := json.Marshal(response.Response{
		Code: http.StatusOK,
		Msg:  "success",
		Data: newProductDetailView(p, reviews, related),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	tag := etag.Weak(body)
	c.Header("ETag", tag)
	if etag.Match(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Reviews GET /models-demo/reviews/ 支持 rating、verified 过滤
func (h *Handler) Reviews(c *gin.Context) {
	f := store.ReviewFilter{VerifiedOnly: c.Query("verified") == "true"}
	rating, err := queryUint(c, "rating")
	if err != nil {
		writeError(c, err)
		return
	}
	if rating != nil {
		if *rating > 255 {
			writeError(c, badParam("rating", "out of range"))
			return
		}
		r := uint8(*rating)
		f.Rating = &r
	}

	reviews, err := h.store.ListReviews(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, newReviewViews(reviews))
}

// Tags GET /models-demo/tags/ 标签及商品数
func (h *Handler) Tags(c *gin.Context) {
	rows, err := h.store.TagsWithCounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]tagView, len(rows))
	for i := range rows {
		views[i] = newTagView(&rows[i].Tag)
		views[i].ProductCount = &rows[i].ProductCount
	}
	response.Success(c, views)
}

// Orders GET /models-demo/orders/ 仅员工可见，支持 status 过滤
func (h *Handler) Orders(c *gin.Context) {
	if !middleware.IsStaff(c) {
		response.AccessDenied(c)
		return
	}

	f := store.OrderFilter{Status: model.OrderStatus(c.Query("status"))}
	orders, err := h.store.ListOrders(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = newOrderView(&orders[i])
	}
	response.Success(c, views)
}
