package middleware

import (
	"log"
	"net/http"

	"go-modelsdemo/pkg/config"
	"go-modelsdemo/pkg/response"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/gin-gonic/gin"
)

// 资源名称
const ResProductList = "catalog_product_list"

// InitSentinel 初始化 Sentinel 并加载商品列表的 QPS 规则
func InitSentinel(cfg config.SentinelConfig) error {
	if err := sentinel.InitDefault(); err != nil {
		return err
	}

	_, err := flow.LoadRules([]*flow.Rule{
		{
			Resource:               ResProductList,
			TokenCalculateStrategy: flow.Direct, // 直接计数
			ControlBehavior:        flow.Reject, // 超出直接拒绝
			Threshold:              cfg.ProductListQPS,
			StatIntervalInMs:       1000,
		},
	})
	if err != nil {
		return err
	}
	log.Printf("[Sentinel] rules loaded: %s QPS limit = %.0f", ResProductList, cfg.ProductListQPS)
	return nil
}

// RateLimit 对 resource 做 Sentinel 入口检查，被限流时返回 429
func RateLimit(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, b := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if b != nil {
			response.AbortError(c, http.StatusTooManyRequests, "too many requests, please retry later")
			return
		}
		defer e.Exit()
		c.Next()
	}
}
