package ioc

import (
	"strings"
	"time"

	"github.com/KNICEX/price-alert/internal/service/strategy"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type MonitorConfig struct {
	QuoteCurrency string        `mapstructure:"quote_currency"`
	Interval      time.Duration `mapstructure:"interval"`
	StateTTL      time.Duration `mapstructure:"state_ttl"`
	RiseWatchList []string      `mapstructure:"rise_watch_list"`
	IgnoreSymbols []string      `mapstructure:"ignore_symbols"`
	Thresholds    struct {
		MildRise   float64 `mapstructure:"mild_rise"`
		StrongRise float64 `mapstructure:"strong_rise"`
		Drop       float64 `mapstructure:"drop"`
	} `mapstructure:"thresholds"`
}

func (cfg *MonitorConfig) normalize() {
	if cfg.Interval <= 0 {
		cfg.Interval = 300 * time.Second
	}
	cfg.QuoteCurrency = strings.ToUpper(strings.TrimSpace(cfg.QuoteCurrency))
	cfg.RiseWatchList = symbolList(cfg.RiseWatchList)
	cfg.IgnoreSymbols = symbolList(cfg.IgnoreSymbols)
}

// symbolList "BTCINR, ethinr" 这类写法也拆成单独的交易对
func symbolList(items []string) []string {
	symbols := lo.FlatMap(items, func(item string, _ int) []string {
		return strings.Split(item, ",")
	})
	symbols = lo.Map(symbols, func(item string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(item))
	})
	return lo.Uniq(lo.Compact(symbols))
}

func InitThresholdEngine(cfg MonitorConfig) *strategy.ThresholdEngine {
	engine, err := strategy.NewThresholdEngine(strategy.Thresholds{
		MildRise:   decimal.NewFromFloat(cfg.Thresholds.MildRise),
		StrongRise: decimal.NewFromFloat(cfg.Thresholds.StrongRise),
		Drop:       decimal.NewFromFloat(cfg.Thresholds.Drop),
	}, cfg.RiseWatchList)
	if err != nil {
		panic(err)
	}
	return engine
}
