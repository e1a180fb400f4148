// Package handler 目录服务的 HTTP 接口：/models-demo 只读页面与 /admin 后台接口
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"go-modelsdemo/apps/catalog/store"
	"go-modelsdemo/pkg/jwt"
	"go-modelsdemo/pkg/response"

	"github.com/gin-gonic/gin"
)

var errBadParam = errors.New("bad query parameter")

type Handler struct {
	store  *store.Store
	tokens *jwt.Manager
}

func New(s *store.Store, tokens *jwt.Manager) *Handler {
	return &Handler{store: s, tokens: tokens}
}

// Healthz 存活检查，顺带检查数据库连接
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		response.Error(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

// writeError 把 store 的错误映射为 HTTP 状态码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errBadParam), errors.Is(err, store.ErrInvalid):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrCannotCancel):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("[Catalog] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, store.ErrNotFound
	}
	return uint(id), nil
}

// queryUint 解析可选的正整数参数，缺省返回 nil
func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, badParam(name, "must be a non-negative integer")
	}
	v := uint(n)
	return &v, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badParam(name, "must be a positive integer")
	}
	return n, nil
}

func badParam(name, reason string) error {
	return errors.Join(errBadParam, errors.New(name+" "+reason))
}
