package notification

import (
	"context"
	"fmt"
	"log/slog"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator 由 twilio.RestClient.Api 实现
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier 通过 Twilio 发送短信
type SMSNotifier struct {
	api  MessageCreator
	from string
	to   string
}

func NewSMSNotifier(api MessageCreator, from, to string) *SMSNotifier {
	return &SMSNotifier{
		api:  api,
		from: from,
		to:   to,
	}
}

func (s *SMSNotifier) Notify(ctx context.Context, msg Message) error {
	if s.from == "" || s.to == "" {
		return fmt.Errorf("twilio: sender and recipient numbers are required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(s.to)
	params.SetBody(msg.String())

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: create message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		slog.InfoContext(ctx, "sms alert sent", "sid", *resp.Sid)
	}
	return nil
}

func (s *SMSNotifier) Name() string {
	return "twilio"
}
