package strategy

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PriceState 单个交易对的价格状态
type PriceState struct {
	Symbol        string
	ReferenceHigh decimal.Decimal // 上次跌幅重置以来的最高价
	LastPrice     decimal.Decimal
	LastUpdated   time.Time
}

// PriceBook 持有全部交易对状态, 只由监控循环写入.
// 读方法返回副本, 可被状态接口并发调用.
type PriceBook struct {
	mu     sync.RWMutex
	states map[string]*PriceState
}

func NewPriceBook() *PriceBook {
	return &PriceBook{
		states: make(map[string]*PriceState),
	}
}

func (b *PriceBook) Get(symbol string) (PriceState, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.states[symbol]
	if !ok {
		return PriceState{}, false
	}
	return *s, true
}

// Put 覆盖写入一个状态
func (b *PriceBook) Put(state PriceState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := state
	b.states[state.Symbol] = &s
}

func (b *PriceBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.states)
}

func (b *PriceBook) Snapshot() []PriceState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	res := make([]PriceState, 0, len(b.states))
	for _, s := range b.states {
		res = append(res, *s)
	}
	return res
}

// Prune 删除本轮行情中已不存在且 before 之前未更新的状态, 返回删除数量
func (b *PriceBook) Prune(before time.Time, present func(symbol string) bool) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for symbol, s := range b.states {
		if present(symbol) {
			continue
		}
		if s.LastUpdated.Before(before) {
			delete(b.states, symbol)
			n++
		}
	}
	return n
}
