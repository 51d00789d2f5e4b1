package redisstore

import (
	"context"
	"errors"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/metrics"
)

// MetricsHook implements goredis.Hook to record per-command counters and
// latency histograms.
type MetricsHook struct{}

var _ goredis.Hook = (*MetricsHook)(nil)

func NewMetricsHook() *MetricsHook {
	return &MetricsHook{}
}

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			metrics.RedisOpsTotal.WithLabelValues("dial", "error").Inc()
			return nil, err
		}
		metrics.RedisOpsTotal.WithLabelValues("dial", "ok").Inc()
		return conn, nil
	}
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		metrics.RedisOpDuration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())

		if err != nil && !errors.Is(err, goredis.Nil) {
			metrics.RedisOpsTotal.WithLabelValues(cmd.Name(), "error").Inc()
			return err
		}
		metrics.RedisOpsTotal.WithLabelValues(cmd.Name(), "ok").Inc()
		return err
	}
}

func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		metrics.RedisOpDuration.WithLabelValues("pipeline").Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.RedisOpsTotal.WithLabelValues("pipeline", "error").Inc()
			return err
		}
		metrics.RedisOpsTotal.WithLabelValues("pipeline", "ok").Inc()
		return nil
	}
}
