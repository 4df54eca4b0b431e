package ioc

import (
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2"
)

type BinanceConfig struct {
	ApiKey    string `mapstructure:"api_key"`
	ApiSecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

// InitBinanceCli 行情接口无需签名, key 可为空.
// NewClient 默认复用 http.DefaultClient, 这里换成独立的 client 再设超时
func InitBinanceCli(cfg BinanceConfig, timeout time.Duration) *binance.Client {
	cli := binance.NewClient(cfg.ApiKey, cfg.ApiSecret)
	cli.HTTPClient = &http.Client{Timeout: timeout}
	if cfg.BaseURL != "" {
		cli.BaseURL = cfg.BaseURL
	}
	return cli
}
