package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Multi 将消息发送到全部渠道, 单个渠道失败不影响其它渠道
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		slog.DebugContext(ctx, "notification sent", "channel", n.Name(), "title", msg.Title)
	}
	return errors.Join(errs...)
}

func (m *Multi) Name() string {
	return "multi"
}

func (m *Multi) Len() int {
	return len(m.notifiers)
}
