package notification

import (
	"context"
	"log/slog"
)

type ConsoleNotifier struct {
	logger *slog.Logger
}

func NewConsoleNotifier(logger *slog.Logger) *ConsoleNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleNotifier{logger: logger}
}

func (c *ConsoleNotifier) Notify(ctx context.Context, msg Message) error {
	c.logger.InfoContext(ctx, "alert", "title", msg.Title, "body", msg.Body)
	return nil
}

func (c *ConsoleNotifier) Name() string {
	return "console"
}
