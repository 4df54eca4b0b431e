package exchange

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Snapshot 一次拉取得到的 symbol -> 最新价格
type Snapshot map[string]decimal.Decimal

// Symbols 返回排序后的交易对列表
func (s Snapshot) Symbols() []string {
	symbols := lo.Keys(map[string]decimal.Decimal(s))
	slices.Sort(symbols)
	return symbols
}

type TickerService interface {
	// Snapshot 拉取全部行情并过滤到指定计价货币, 整体失败时返回 error
	Snapshot(ctx context.Context) (Snapshot, error)
	Name() string
}

// NormalizeSymbol 统一为大写, 去掉空白
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// HasQuote 判断交易对是否以计价货币结尾, 且 base 部分非空
func HasQuote(symbol, quote string) bool {
	symbol, quote = NormalizeSymbol(symbol), NormalizeSymbol(quote)
	if quote == "" {
		return false
	}
	return len(symbol) > len(quote) && strings.HasSuffix(symbol, quote)
}

// SplitSymbol 按计价货币拆分交易对, BTCINR -> BTC, INR
func SplitSymbol(symbol, quote string) (string, string) {
	symbol, quote = NormalizeSymbol(symbol), NormalizeSymbol(quote)
	if !HasQuote(symbol, quote) {
		return symbol, ""
	}
	return strings.TrimSuffix(symbol, quote), quote
}
