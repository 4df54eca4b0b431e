package monitor

import (
	"context"
	"log/slog"

	"github.com/KNICEX/price-alert/internal/entity"
	"github.com/KNICEX/price-alert/internal/repo"
	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/internal/service/notification"
	"github.com/KNICEX/price-alert/internal/service/strategy"
)

type AlertDispatcher struct {
	notifier notification.Notifier
	repo     repo.AlertRepo
	quote    string
}

type DispatcherOption func(d *AlertDispatcher)

// WithAlertRepo 记录每条告警及其发送结果
func WithAlertRepo(r repo.AlertRepo) DispatcherOption {
	return func(d *AlertDispatcher) {
		d.repo = r
	}
}

func NewAlertDispatcher(notifier notification.Notifier, quote string, opts ...DispatcherOption) *AlertDispatcher {
	d := &AlertDispatcher{
		notifier: notifier,
		quote:    exchange.NormalizeSymbol(quote),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *AlertDispatcher) Dispatch(ctx context.Context, event strategy.AlertEvent) {
	id := d.record(ctx, event)

	status := entity.AlertStatusDelivered
	if err := d.notifier.Notify(ctx, FormatAlert(event, d.quote)); err != nil {
		status = entity.AlertStatusFailed
		slog.ErrorContext(ctx, "failed to send alert", "symbol", event.Symbol, "type", event.Type, "error", err)
	}

	if id == 0 {
		return
	}
	if err := d.repo.UpdateStatus(ctx, id, status); err != nil {
		slog.ErrorContext(ctx, "failed to update alert status", "id", id, "error", err)
	}
}

func (d *AlertDispatcher) record(ctx context.Context, event strategy.AlertEvent) int64 {
	if d.repo == nil {
		return 0
	}
	base, quote := exchange.SplitSymbol(event.Symbol, d.quote)
	id, err := d.repo.Create(ctx, entity.Alert{
		Symbol:         event.Symbol,
		BaseSymbol:     base,
		QuoteSymbol:    quote,
		AlertType:      string(event.Type),
		CurrentPrice:   event.CurrentPrice.String(),
		ReferencePrice: event.ReferencePrice.String(),
		ChangePercent:  event.ChangePercent.InexactFloat64(),
		Status:         entity.AlertStatusPending,
		CreatedAt:      event.Timestamp,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to save alert", "symbol", event.Symbol, "error", err)
		return 0
	}
	return id
}
