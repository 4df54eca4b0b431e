package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/KNICEX/price-alert/internal/schedule"
	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PriceMonitorTask 一轮: 拉取行情 -> 过滤 -> 检测 -> 发送
type PriceMonitorTask struct {
	tickerSvc    exchange.TickerService
	priceSvc     PriceService
	observer     CycleObserver
	rejectSymbol func(symbol string) bool // if true, reject
}

type TaskOption func(t *PriceMonitorTask)

func WithObserver(observer CycleObserver) TaskOption {
	return func(t *PriceMonitorTask) {
		if observer != nil {
			t.observer = observer
		}
	}
}

// WithIgnoreSymbols 跳过这些交易对, 不建立状态也不告警
func WithIgnoreSymbols(symbols []string) TaskOption {
	return func(t *PriceMonitorTask) {
		ignored := lo.SliceToMap(symbols, func(item string) (string, struct{}) {
			return exchange.NormalizeSymbol(item), struct{}{}
		})
		t.rejectSymbol = func(symbol string) bool {
			_, ok := ignored[symbol]
			return ok
		}
	}
}

func NewPriceMonitorTask(tickerSvc exchange.TickerService, priceSvc PriceService, opts ...TaskOption) schedule.Task {
	task := &PriceMonitorTask{
		tickerSvc: tickerSvc,
		priceSvc:  priceSvc,
		observer:  nopObserver{},
		rejectSymbol: func(symbol string) bool {
			return false
		},
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// Run 拉取失败时本轮跳过, 不修改任何状态
func (t *PriceMonitorTask) Run(ctx context.Context) error {
	snapshot, err := t.tickerSvc.Snapshot(ctx)
	if err != nil {
		t.observer.CycleSkipped(time.Now(), err)
		return fmt.Errorf("skip cycle, fetch %s snapshot: %w", t.tickerSvc.Name(), err)
	}

	snapshot = exchange.Snapshot(lo.OmitBy(map[string]decimal.Decimal(snapshot), func(symbol string, _ decimal.Decimal) bool {
		return t.rejectSymbol(symbol)
	}))

	events, err := t.priceSvc.Scan(ctx, snapshot)
	if err != nil {
		t.observer.CycleSkipped(time.Now(), err)
		return err
	}
	t.observer.CycleCompleted(time.Now(), t.priceSvc.Tracked(), len(events))
	return nil
}

func (t *PriceMonitorTask) Name() string {
	return "price threshold monitor task"
}
