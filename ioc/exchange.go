package ioc

import (
	"fmt"
	"time"

	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/internal/service/exchange/binance"
	"github.com/KNICEX/price-alert/internal/service/exchange/coindcx"
)

type ExchangeConfig struct {
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
	CoinDCX struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"coindcx"`
	Binance BinanceConfig `mapstructure:"binance"`
}

func InitTickerService(cfg ExchangeConfig, quote string) exchange.TickerService {
	switch cfg.Name {
	case "", "coindcx":
		return coindcx.NewTickerService(quote, cfg.Timeout, coindcx.WithBaseURL(cfg.CoinDCX.BaseURL))
	case "binance":
		return binance.NewTickerService(InitBinanceCli(cfg.Binance, cfg.Timeout), quote)
	default:
		panic(fmt.Errorf("unsupported exchange %q", cfg.Name))
	}
}
