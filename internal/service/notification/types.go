package notification

import "context"

type Message struct {
	Title string
	Body  string
}

func (m Message) String() string {
	if m.Title == "" {
		return m.Body
	}
	return m.Title + "\n" + m.Body
}

// Notifier 一个通知渠道
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
	Name() string
}

type WebhookService interface {
	Send(ctx context.Context, url string, data map[string]any) error
}
