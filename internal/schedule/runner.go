package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Runner 以固定间隔串行执行任务: 上一次执行结束后再等待 interval, 不会重叠
type Runner struct {
	task     Task
	interval time.Duration
}

func NewRunner(task Task, interval time.Duration) *Runner {
	return &Runner{
		task:     task,
		interval: interval,
	}
}

// Run 阻塞直到 ctx 取消. 任务返回的错误只记录日志.
func (r *Runner) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("task stopped", "task", r.task.Name(), "reason", ctx.Err())
			return
		case <-timer.C:
		}

		start := time.Now()
		if err := r.task.Run(ctx); err != nil {
			slog.Error("task run failed", "task", r.task.Name(), "error", err)
		}
		slog.Debug("task finished", "task", r.task.Name(), "cost", time.Since(start))

		timer.Reset(r.interval)
	}
}
