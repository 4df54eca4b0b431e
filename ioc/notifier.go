package ioc

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KNICEX/price-alert/internal/service/notification"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/twilio/twilio-go"
)

type NotifierConfig struct {
	Channels []string `mapstructure:"channels"`
	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`
	Twilio struct {
		AccountSid string `mapstructure:"account_sid"`
		AuthToken  string `mapstructure:"auth_token"`
		From       string `mapstructure:"from"`
		To         string `mapstructure:"to"`
	} `mapstructure:"twilio"`
	Webhook struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"webhook"`
}

func InitNotifier(cfg NotifierConfig) *notification.Multi {
	var notifiers []notification.Notifier
	for _, ch := range cfg.Channels {
		switch strings.ToLower(strings.TrimSpace(ch)) {
		case "console":
			notifiers = append(notifiers, notification.NewConsoleNotifier(slog.Default()))
		case "telegram":
			bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
			if err != nil {
				panic(fmt.Errorf("init telegram bot: %w", err))
			}
			notifiers = append(notifiers, notification.NewTelegramNotifier(bot, cfg.Telegram.ChatID))
		case "twilio":
			cli := twilio.NewRestClientWithParams(twilio.ClientParams{
				Username: cfg.Twilio.AccountSid,
				Password: cfg.Twilio.AuthToken,
			})
			notifiers = append(notifiers, notification.NewSMSNotifier(cli.Api, cfg.Twilio.From, cfg.Twilio.To))
		case "webhook":
			if cfg.Webhook.URL == "" {
				panic("notifier.webhook.url is required")
			}
			svc := notification.NewWebhookService(cfg.Webhook.Timeout)
			notifiers = append(notifiers, notification.NewWebhookNotifier(svc, cfg.Webhook.URL))
		default:
			panic(fmt.Errorf("unsupported notifier channel %q", ch))
		}
	}

	if len(notifiers) == 0 {
		notifiers = append(notifiers, notification.NewConsoleNotifier(slog.Default()))
	}
	return notification.NewMulti(notifiers...)
}
