package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/internal/service/strategy"
)

type PriceMonitor struct {
	engine     *strategy.ThresholdEngine
	book       *strategy.PriceBook
	dispatcher Dispatcher

	stateTTL time.Duration
	now      func() time.Time
}

type Option func(m *PriceMonitor)

// WithStateTTL 开启状态清理: 行情中消失且超过 ttl 未更新的交易对会被删除, 0 表示不清理
func WithStateTTL(ttl time.Duration) Option {
	return func(m *PriceMonitor) {
		m.stateTTL = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *PriceMonitor) {
		m.now = now
	}
}

func NewPriceMonitor(engine *strategy.ThresholdEngine, book *strategy.PriceBook, dispatcher Dispatcher, opts ...Option) *PriceMonitor {
	m := &PriceMonitor{
		engine:     engine,
		book:       book,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *PriceMonitor) Scan(ctx context.Context, snapshot exchange.Snapshot) ([]strategy.AlertEvent, error) {
	events := m.engine.Evaluate(ctx, m.book, snapshot)
	for _, event := range events {
		slog.InfoContext(ctx, "price alert triggered",
			"symbol", event.Symbol,
			"type", event.Type,
			"current", event.CurrentPrice,
			"reference", event.ReferencePrice,
			"change_percent", event.ChangePercent.StringFixed(2),
		)
		m.dispatcher.Dispatch(ctx, event)
	}

	if m.stateTTL > 0 {
		pruned := m.book.Prune(m.now().Add(-m.stateTTL), func(symbol string) bool {
			_, ok := snapshot[symbol]
			return ok
		})
		if pruned > 0 {
			slog.InfoContext(ctx, "pruned stale symbols", "count", pruned)
		}
	}
	return events, nil
}

func (m *PriceMonitor) Tracked() int {
	return m.book.Len()
}
