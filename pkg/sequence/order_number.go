// Package sequence 生成订单号
package sequence

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MaxLength 与 order_number 列宽一致
const MaxLength = 20

type Generator interface {
	Next(ctx context.Context) (string, error)
}

// RedisGenerator 每天一个计数器: ORD20261019000042
type RedisGenerator struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisGenerator(rdb *redis.Client) *RedisGenerator {
	return &RedisGenerator{rdb: rdb, now: time.Now}
}

func (g *RedisGenerator) Next(ctx context.Context) (string, error) {
	day := g.now().Format("20060102")
	key := "order_number:" + day

	n, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("incr %s: %w", key, err)
	}
	if n == 1 {
		// 计数器只需要活过当天，设置失败不影响本次取号
		if err := g.rdb.Expire(ctx, key, 48*time.Hour).Err(); err != nil {
			log.Printf("[Sequence] expire %s failed: %v", key, err)
		}
	}
	return Format(day, n), nil
}

// Format 按日期和当日序号生成订单号
func Format(day string, n int64) string {
	return fmt.Sprintf("ORD%s%06d", day, n)
}

// UUIDGenerator 没有 Redis 时使用，不保证有序
type UUIDGenerator struct{}

func (UUIDGenerator) Next(context.Context) (string, error) {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD" + id[:MaxLength-3], nil
}
