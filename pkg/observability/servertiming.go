package observability

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

// Metric 一条进行中的 Server-Timing 记录，零值不做任何事
type Metric struct {
	metric *servertiming.Metric
}

// Stop 结束计时
func (m *Metric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// StartTiming 请求上下文里有 timing header (servertiming.Middleware) 时开始计时，否则为空操作
func StartTiming(ctx context.Context, name, desc string) *Metric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &Metric{}
	}

	m := timing.NewMetric(name)
	if desc != "" {
		m = m.WithDesc(desc)
	}
	return &Metric{metric: m.Start()}
}
