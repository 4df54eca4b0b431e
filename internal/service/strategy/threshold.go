package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Thresholds 均为比例, 0.05 表示 5%
type Thresholds struct {
	MildRise   decimal.Decimal `json:"mild_rise"`
	StrongRise decimal.Decimal `json:"strong_rise"`
	Drop       decimal.Decimal `json:"drop"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MildRise:   decimal.NewFromFloat(0.05),
		StrongRise: decimal.NewFromFloat(0.10),
		Drop:       decimal.NewFromFloat(0.25),
	}
}

func (t Thresholds) Validate() error {
	if !t.MildRise.IsPositive() {
		return fmt.Errorf("mild rise threshold must be positive, got %s", t.MildRise)
	}
	if !t.StrongRise.GreaterThan(t.MildRise) {
		return fmt.Errorf("strong rise threshold %s must be greater than mild rise threshold %s", t.StrongRise, t.MildRise)
	}
	if !t.Drop.IsPositive() || t.Drop.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("drop threshold must be in (0, 1), got %s", t.Drop)
	}
	return nil
}

// ThresholdEngine 根据阈值判断价格异动.
// 涨幅相对上一轮价格计算, 跌幅相对上次重置以来的最高价计算.
type ThresholdEngine struct {
	thresholds Thresholds
	riseWatch  map[string]struct{}
	now        func() time.Time
}

type EngineOption func(e *ThresholdEngine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *ThresholdEngine) {
		e.now = now
	}
}

func NewThresholdEngine(thresholds Thresholds, riseWatchList []string, opts ...EngineOption) (*ThresholdEngine, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	e := &ThresholdEngine{
		thresholds: thresholds,
		riseWatch: lo.SliceToMap(riseWatchList, func(item string) (string, struct{}) {
			return exchange.NormalizeSymbol(item), struct{}{}
		}),
		now: time.Now,
	}
	delete(e.riseWatch, "")
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *ThresholdEngine) Thresholds() Thresholds {
	return e.thresholds
}

func (e *ThresholdEngine) WatchListSize() int {
	return len(e.riseWatch)
}

func (e *ThresholdEngine) Watching(symbol string) bool {
	_, ok := e.riseWatch[symbol]
	return ok
}

// Evaluate 用本轮行情更新 book, 返回触发的告警. 单个交易对出错只跳过该交易对.
func (e *ThresholdEngine) Evaluate(ctx context.Context, book *PriceBook, snapshot exchange.Snapshot) []AlertEvent {
	now := e.now()
	var events []AlertEvent
	for _, symbol := range snapshot.Symbols() {
		event, err := e.evaluateSymbol(book, symbol, snapshot[symbol], now)
		if err != nil {
			slog.WarnContext(ctx, "skip symbol", "symbol", symbol, "price", snapshot[symbol], "error", err)
			continue
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}

func (e *ThresholdEngine) evaluateSymbol(book *PriceBook, symbol string, current decimal.Decimal, now time.Time) (event *AlertEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			event, err = nil, fmt.Errorf("strategy: evaluate %s: %v", symbol, r)
		}
	}()

	if !current.IsPositive() {
		return nil, ErrInvalidPrice
	}

	state, ok := book.Get(symbol)
	if !ok {
		book.Put(PriceState{
			Symbol:        symbol,
			ReferenceHigh: current,
			LastPrice:     current,
			LastUpdated:   now,
		})
		return nil, nil
	}

	event, err = e.classify(state, current)

	next := state
	next.ReferenceHigh = decimal.Max(state.ReferenceHigh, current)
	if event != nil && event.Type == Drop {
		next.ReferenceHigh = current
	}
	next.LastPrice = current
	if !next.ReferenceHigh.Equal(state.ReferenceHigh) || !next.LastPrice.Equal(state.LastPrice) {
		next.LastUpdated = now
		book.Put(next)
	}

	if err != nil {
		return nil, err
	}
	if event != nil {
		event.Timestamp = now
	}
	return event, nil
}

// classify 按 温和上涨 -> 强势上涨 -> 下跌 的顺序匹配, 只返回第一个符合条件的告警
func (e *ThresholdEngine) classify(state PriceState, current decimal.Decimal) (*AlertEvent, error) {
	if state.LastPrice.IsZero() || state.ReferenceHigh.IsZero() {
		return nil, ErrZeroReference
	}

	if e.Watching(state.Symbol) {
		rise, err := decimalx.ChangeRatio(current, state.LastPrice)
		if err != nil {
			return nil, err
		}
		var typ AlertType
		switch {
		case rise.GreaterThanOrEqual(e.thresholds.MildRise) && rise.LessThan(e.thresholds.StrongRise):
			typ = MildRise
		case rise.GreaterThanOrEqual(e.thresholds.StrongRise):
			typ = StrongRise
		}
		if typ != "" {
			return &AlertEvent{
				Symbol:         state.Symbol,
				Type:           typ,
				CurrentPrice:   current,
				ReferencePrice: state.LastPrice,
				ChangePercent:  decimalx.Percent(rise),
			}, nil
		}
	}

	drop, err := decimalx.ChangeRatio(current, state.ReferenceHigh)
	if err != nil {
		return nil, err
	}
	if drop.LessThanOrEqual(e.thresholds.Drop.Neg()) {
		return &AlertEvent{
			Symbol:         state.Symbol,
			Type:           Drop,
			CurrentPrice:   current,
			ReferencePrice: state.ReferenceHigh,
			ChangePercent:  decimalx.Percent(drop),
		}, nil
	}
	return nil, nil
}
