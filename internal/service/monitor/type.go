package monitor

import (
	"context"
	"time"

	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/internal/service/strategy"
)

// PriceService 执行一轮阈值检测
type PriceService interface {
	Scan(ctx context.Context, snapshot exchange.Snapshot) ([]strategy.AlertEvent, error)
	Tracked() int
}

// Dispatcher 发送告警, 失败只记录日志, 不影响价格状态
type Dispatcher interface {
	Dispatch(ctx context.Context, event strategy.AlertEvent)
}

type CycleObserver interface {
	CycleSkipped(at time.Time, err error)
	CycleCompleted(at time.Time, tracked, alerts int)
}

type nopObserver struct{}

func (nopObserver) CycleSkipped(time.Time, error)       {}
func (nopObserver) CycleCompleted(time.Time, int, int) {}
