package monitor

import (
	"fmt"

	"github.com/KNICEX/price-alert/internal/service/notification"
	"github.com/KNICEX/price-alert/internal/service/strategy"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

var currencySign = map[string]string{
	"INR":  "₹",
	"USDT": "$",
	"USDC": "$",
	"USD":  "$",
}

func FormatAlert(event strategy.AlertEvent, quote string) notification.Message {
	pct := event.ChangePercent.Abs().StringFixed(2)

	refLabel := "📈 Previous High"
	if event.Type.IsRise() {
		refLabel = "📉 Previous Price"
	}

	var title string
	switch event.Type {
	case strategy.Drop:
		title = fmt.Sprintf("🚨 CRYPTO ALERT: %s dropped by %s%%!", event.Symbol, pct)
	case strategy.StrongRise:
		title = fmt.Sprintf("🚀 CRYPTO ALERT: %s surged by %s%%!", event.Symbol, pct)
	default:
		title = fmt.Sprintf("📈 CRYPTO ALERT: %s rose by %s%%", event.Symbol, pct)
	}

	body := fmt.Sprintf(
		"💰 Current Price: %s\n"+
			"%s: %s\n"+
			"📊 Change: %s%%\n"+
			"⏰ Time: %s",
		formatPrice(event.CurrentPrice, quote),
		refLabel, formatPrice(event.ReferencePrice, quote),
		signed(event.ChangePercent),
		event.Timestamp.Format(timeLayout),
	)
	return notification.Message{Title: title, Body: body}
}

func formatPrice(p decimal.Decimal, quote string) string {
	if sign, ok := currencySign[quote]; ok {
		return sign + p.String()
	}
	if quote == "" {
		return p.String()
	}
	return p.String() + " " + quote
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
