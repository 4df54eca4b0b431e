package ioc

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PRICE_ALERT"

type Config struct {
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	DB       DBConfig       `mapstructure:"db"`
	Status   struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"status"`
}

func SetDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("exchange.name", "coindcx")
	viper.SetDefault("exchange.timeout", 10*time.Second)
	viper.SetDefault("exchange.coindcx.base_url", "https://api.coindcx.com")
	viper.SetDefault("exchange.binance.api_key", "")
	viper.SetDefault("exchange.binance.api_secret", "")
	viper.SetDefault("exchange.binance.base_url", "")
	viper.SetDefault("monitor.quote_currency", "INR")
	viper.SetDefault("monitor.interval", 300*time.Second)
	viper.SetDefault("monitor.state_ttl", time.Duration(0))
	viper.SetDefault("monitor.thresholds.mild_rise", 0.05)
	viper.SetDefault("monitor.thresholds.strong_rise", 0.10)
	viper.SetDefault("monitor.thresholds.drop", 0.25)
	viper.SetDefault("monitor.rise_watch_list", []string{})
	viper.SetDefault("monitor.ignore_symbols", []string{})
	viper.SetDefault("notifier.channels", []string{"console"})
	viper.SetDefault("notifier.telegram.token", "")
	viper.SetDefault("notifier.telegram.chat_id", 0)
	viper.SetDefault("notifier.twilio.account_sid", "")
	viper.SetDefault("notifier.twilio.auth_token", "")
	viper.SetDefault("notifier.twilio.from", "")
	viper.SetDefault("notifier.twilio.to", "")
	viper.SetDefault("notifier.webhook.url", "")
	viper.SetDefault("notifier.webhook.timeout", 10*time.Second)
	viper.SetDefault("db.dsn", "price_alert.db")
	viper.SetDefault("status.addr", ":8080")
}

// BindEnv PRICE_ALERT_MONITOR_INTERVAL 覆盖 monitor.interval, 同时兼容旧的 Twilio/Telegram 变量名
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	legacy := map[string]string{
		"notifier.twilio.account_sid": "TWILIO_ACCOUNT_SID",
		"notifier.twilio.auth_token":  "TWILIO_AUTH_TOKEN",
		"notifier.twilio.from":        "TWILIO_PHONE_NUMBER",
		"notifier.twilio.to":          "YOUR_MOBILE_NUMBER",
		"notifier.telegram.token":     "TELEGRAM_BOT_TOKEN",
	}
	for key, name := range legacy {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = viper.BindEnv(key, prefixed, name)
	}
}

// LoadConfig 整棵配置树一次解析, UnmarshalKey 读父节点时拿不到子键的环境变量覆盖
func LoadConfig() Config {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	cfg.Monitor.normalize()
	return cfg
}
