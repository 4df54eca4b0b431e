package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

var ErrWebhookStatus = errors.New("webhook: unexpected status")

type httpWebhookService struct {
	cli *http.Client
}

func NewWebhookService(timeout time.Duration) WebhookService {
	return &httpWebhookService{
		cli: &http.Client{Timeout: timeout},
	}
}

func (s *httpWebhookService) Send(ctx context.Context, url string, data map[string]any) error {
	body, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w %d: %s", ErrWebhookStatus, resp.StatusCode, string(respBody))
	}
	return nil
}

// WebhookNotifier 以 {"content": "..."} 格式投递, 兼容 Discord / Slack incoming webhook
type WebhookNotifier struct {
	svc WebhookService
	url string
}

func NewWebhookNotifier(svc WebhookService, url string) *WebhookNotifier {
	return &WebhookNotifier{
		svc: svc,
		url: url,
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, msg Message) error {
	return w.svc.Send(ctx, w.url, map[string]any{
		"content": msg.String(),
		"text":    msg.String(),
	})
}

func (w *WebhookNotifier) Name() string {
	return "webhook"
}
