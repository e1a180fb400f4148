package handler

import (
	"context"

	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/apps/catalog/store"
	"go-modelsdemo/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// resource 后台一个实体的增删改查。save 负责绑定请求体并写库，id 为 0 表示新建。
type resource[T any] struct {
	list   func(context.Context, store.ListOptions) ([]T, int64, error)
	get    func(context.Context, uint) (*T, error)
	save   func(c *gin.Context, id uint) (interface{}, error)
	delete func(context.Context, uint) error
}

func (res resource[T]) register(g *gin.RouterGroup, path string) {
	g.GET(path, res.handleList)
	g.GET(path+"/:id", res.handleGet)
	g.POST(path, res.handleCreate)
	g.PUT(path+"/:id", res.handleUpdate)
	g.DELETE(path+"/:id", res.handleDelete)
}

func listOptions(c *gin.Context) (store.ListOptions, error) {
	var opts store.ListOptions
	var err error
	if opts.Page, err = queryInt(c, "page"); err != nil {
		return opts, err
	}
	if opts.PageSize, err = queryInt(c, "page_size"); err != nil {
		return opts, err
	}
	opts.Search = c.Query("search")
	opts.Filters = make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		switch key {
		case "page", "page_size", "search":
			continue
		}
		if len(values) > 0 {
			opts.Filters[key] = values[0]
		}
	}
	return opts.Normalize(), nil
}

func (res resource[T]) handleList(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		writeError(c, err)
		return
	}
	items, total, err := res.list(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, response.Page{Items: items, Total: total, Page: opts.Page, PageSize: opts.PageSize})
}

func (res resource[T]) handleGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := res.get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

func (res resource[T]) handleCreate(c *gin.Context) {
	item, err := res.save(c, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, item)
}

func (res resource[T]) handleUpdate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := res.save(c, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

func (res resource[T]) handleDelete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := res.delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// bind 解析 JSON 请求体，失败时包装成 400
func bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return badParam("body", err.Error())
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /admin/login，只有员工账号可以拿到 Token
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		writeError(c, err)
		return
	}
	u, err := h.store.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if !u.IsStaff {
		response.AccessDenied(c)
		return
	}
	token, err := h.tokens.GenerateToken(u.ID, u.Username, u.IsStaff)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": u})
}

type categoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (h *Handler) saveCategory(c *gin.Context, id uint) (interface{}, error) {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	cat := &model.Category{ID: id, Name: req.Name, Description: req.Description, IsActive: true}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	return cat, h.store.SaveCategory(c.Request.Context(), cat)
}

type productRequest struct {
	Name          string              `json:"name" binding:"required"`
	Slug          string              `json:"slug"`
	CategoryID    uint                `json:"category_id" binding:"required"`
	Description   string              `json:"description"`
	Price         *decimal.Decimal    `json:"price" binding:"required"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	StockQuantity uint                `json:"stock_quantity"`
	Status        model.ProductStatus `json:"status"`
	IsFeatured    bool                `json:"is_featured"`
}

func (h *Handler) saveProduct(c *gin.Context, id uint) (interface{}, error) {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	p := &model.Product{
		ID:            id,
		Name:          req.Name,
		Slug:          req.Slug,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		Price:         *req.Price,
		DiscountPrice: req.DiscountPrice,
		StockQuantity: req.StockQuantity,
		Status:        req.Status,
		IsFeatured:    req.IsFeatured,
	}
	return p, h.store.SaveProduct(c.Request.Context(), p)
}

type productTagsRequest struct {
	TagIDs []uint `json:"tag_ids"`
}

// SetProductTags PUT /admin/products/:id/tags 整体替换商品标签
func (h *Handler) SetProductTags(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req productTagsRequest
	if err := bind(c, &req); err != nil {
		writeError(c, err)
		return
	}
	p, err := h.store.SetProductTags(c.Request.Context(), id, req.TagIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, p)
}

type imageRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Image     string `json:"image" binding:"required"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	Order     uint16 `json:"order"`
}

func (h *Handler) saveImage(c *gin.Context, id uint) (interface{}, error) {
	var req imageRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	img := &model.ProductImage{
		ID:        id,
		ProductID: req.ProductID,
		Image:     req.Image,
		AltText:   req.AltText,
		IsPrimary: req.IsPrimary,
		Order:     req.Order,
	}
	return img, h.store.SaveImage(c.Request.Context(), img)
}

type reviewRequest struct {
	ProductID          uint   `json:"product_id" binding:"required"`
	UserID             uint   `json:"user_id" binding:"required"`
	Rating             uint8  `json:"rating"`
	Title              string `json:"title"`
	Comment            string `json:"comment"`
	IsVerifiedPurchase bool   `json:"is_verified_purchase"`
}

func (h *Handler) saveReview(c *gin.Context, id uint) (interface{}, error) {
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	r := &model.Review{
		ID:                 id,
		ProductID:          req.ProductID,
		UserID:             req.UserID,
		Rating:             req.Rating,
		Title:              req.Title,
		Comment:            req.Comment,
		IsVerifiedPurchase: req.IsVerifiedPurchase,
	}
	return r, h.store.SaveReview(c.Request.Context(), r)
}

type tagRequest struct {
	Name  string `json:"name" binding:"required"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

func (h *Handler) saveTag(c *gin.Context, id uint) (interface{}, error) {
	var req tagRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	t := &model.Tag{ID: id, Name: req.Name, Slug: req.Slug, Color: req.Color}
	return t, h.store.SaveTag(c.Request.Context(), t)
}

type orderItemRequest struct {
	OrderID   uint             `json:"order_id"`
	ProductID uint             `json:"product_id" binding:"required"`
	Quantity  uint             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required"`
}

func (r orderItemRequest) model(id uint) model.OrderItem {
	return model.OrderItem{
		ID:        id,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitPrice: *r.UnitPrice,
	}
}

type orderRequest struct {
	OrderNumber     string             `json:"order_number"`
	UserID          uint               `json:"user_id" binding:"required"`
	Status          model.OrderStatus  `json:"status"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	Notes           string             `json:"notes"`
	Items           []orderItemRequest `json:"items" binding:"dive"`
}

func (h *Handler) saveOrder(c *gin.Context, id uint) (interface{}, error) {
	var req orderRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	o := &model.Order{
		ID:              id,
		OrderNumber:     req.OrderNumber,
		UserID:          req.UserID,
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
	if id != 0 && len(req.Items) > 0 {
		return nil, badParam("items", "are edited through /admin/order-items")
	}
	for _, item := range req.Items {
		o.Items = append(o.Items, item.model(0))
	}
	if err := h.store.SaveOrder(c.Request.Context(), o); err != nil {
		return nil, err
	}
	return h.store.GetOrder(c.Request.Context(), o.ID)
}

// CancelOrder POST /admin/orders/:id/cancel 只能取消待处理/处理中的订单
func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	o, err := h.store.CancelOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, o)
}

func (h *Handler) saveOrderItem(c *gin.Context, id uint) (interface{}, error) {
	var req orderItemRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	if req.OrderID == 0 {
		return nil, badParam("order_id", "is required")
	}
	item := req.model(id)
	return &item, h.store.SaveOrderItem(c.Request.Context(), &item)
}

type userRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
	IsStaff  bool   `json:"is_staff"`
}

func (h *Handler) saveUser(c *gin.Context, id uint) (interface{}, error) {
	var req userRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	if id == 0 {
		return h.store.CreateUser(c.Request.Context(), req.Username, req.Password, req.IsStaff)
	}
	return h.store.UpdateUser(c.Request.Context(), id, req.Username, req.Password, req.IsStaff)
}

func (h *Handler) registerAdmin(g *gin.RouterGroup) {
	resource[model.Category]{
		list: h.store.ListCategories, get: h.store.GetCategory,
		save: h.saveCategory, delete: h.store.DeleteCategory,
	}.register(g, "/categories")
	resource[model.Product]{
		list: h.store.ListProducts, get: h.store.GetProduct,
		save: h.saveProduct, delete: h.store.DeleteProduct,
	}.register(g, "/products")
	resource[model.ProductImage]{
		list: h.store.ListImages, get: h.store.GetImage,
		save: h.saveImage, delete: h.store.DeleteImage,
	}.register(g, "/images")
	resource[model.Review]{
		list: h.store.ListReviewsPage, get: h.store.GetReview,
		save: h.saveReview, delete: h.store.DeleteReview,
	}.register(g, "/reviews")
	resource[model.Tag]{
		list: h.store.ListTags, get: h.store.GetTag,
		save: h.saveTag, delete: h.store.DeleteTag,
	}.register(g, "/tags")
	resource[model.Order]{
		list: h.store.ListOrdersPage, get: h.store.GetOrder,
		save: h.saveOrder, delete: h.store.DeleteOrder,
	}.register(g, "/orders")
	resource[model.OrderItem]{
		list: h.store.ListOrderItems, get: h.store.GetOrderItem,
		save: h.saveOrderItem, delete: h.store.DeleteOrderItem,
	}.register(g, "/order-items")
	resource[model.User]{
		list: h.store.ListUsers, get: h.store.GetUser,
		save: h.saveUser, delete: h.store.DeleteUser,
	}.register(g, "/users")

	g.PUT("/products/:id/tags", h.SetProductTags)
	g.POST("/orders/:id/cancel", h.CancelOrder)
}
