package handler

import (
	"go-modelsdemo/apps/catalog/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter 注册全部路由。mw 最先执行 (链路追踪、日志等)，
// listLimit 非 nil 时挂在商品列表上做限流。
func NewRouter(h *Handler, listLimit gin.HandlerFunc, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.Use(middleware.Auth(h.tokens))

	r.GET("/healthz", h.Healthz)

	// 只读演示接口
	demo := r.Group("/models-demo")
	{
		demo.GET("/", h.Dashboard)
		demo.GET("/categories/", h.Categories)
		if listLimit != nil {
			demo.GET("/products/", listLimit, h.Products)
		} else {
			demo.GET("/products/", h.Products)
		}
		demo.GET("/products/:id/", h.ProductDetail)
		demo.GET("/reviews/", h.Reviews)
		demo.GET("/tags/", h.Tags)
		demo.GET("/orders/", h.Orders)
	}

	// 后台接口，登录以外都需要员工 Token
	r.POST("/admin/login", h.Login)
	admin := r.Group("/admin", middleware.RequireStaff())
	h.registerAdmin(admin)

	return r
}
