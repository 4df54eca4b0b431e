package notification

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type mockNotifier struct {
	mock.Mock
	name string
}

func (m *mockNotifier) Notify(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockNotifier) Name() string {
	return m.name
}

var testMsg = Message{Title: "BTCINR dropped", Body: "Current Price: 74"}

func TestMessage_String(t *testing.T) {
	assert.Equal(t, "BTCINR dropped\nCurrent Price: 74", testMsg.String())
	assert.Equal(t, "body", Message{Body: "body"}.String())
}

func TestMulti_Notify(t *testing.T) {
	ctx := context.Background()
	ok := &mockNotifier{name: "ok"}
	ok.On("Notify", ctx, testMsg).Return(nil).Once()
	bad := &mockNotifier{name: "bad"}
	bad.On("Notify", ctx, testMsg).Return(errors.New("boom")).Once()
	last := &mockNotifier{name: "last"}
	last.On("Notify", ctx, testMsg).Return(nil).Once()

	err := NewMulti(ok, bad, last).Notify(ctx, testMsg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	ok.AssertExpectations(t)
	bad.AssertExpectations(t)
	last.AssertExpectations(t)
}

func TestMulti_Empty(t *testing.T) {
	m := NewMulti()
	assert.NoError(t, m.Notify(context.Background(), testMsg))
	assert.Equal(t, 0, m.Len())
}

func TestConsoleNotifier(t *testing.T) {
	assert.NoError(t, NewConsoleNotifier(nil).Notify(context.Background(), testMsg))
}

func TestWebhookNotifier(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(NewWebhookService(time.Second), srv.URL)
	require.NoError(t, n.Notify(context.Background(), testMsg))
	assert.Equal(t, testMsg.String(), got["content"])
}

func TestWebhookNotifier_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad hook", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(NewWebhookService(time.Second), srv.URL).Notify(context.Background(), testMsg)
	assert.ErrorIs(t, err, ErrWebhookStatus)
}

type fakeMessageCreator struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMSNotifier(t *testing.T) {
	api := &fakeMessageCreator{}
	n := NewSMSNotifier(api, "+10000000000", "+919999999999")

	require.NoError(t, n.Notify(context.Background(), testMsg))
	require.NotNil(t, api.params)
	assert.Equal(t, "+10000000000", *api.params.From)
	assert.Equal(t, "+919999999999", *api.params.To)
	assert.Equal(t, testMsg.String(), *api.params.Body)
}

func TestSMSNotifier_Errors(t *testing.T) {
	err := NewSMSNotifier(&fakeMessageCreator{}, "", "+91").Notify(context.Background(), testMsg)
	assert.Error(t, err)

	api := &fakeMessageCreator{err: errors.New("invalid number")}
	err = NewSMSNotifier(api, "+1", "+91").Notify(context.Background(), testMsg)
	assert.ErrorContains(t, err, "invalid number")
}

func newTestBot(t *testing.T, sendResponse string) *tgbotapi.BotAPI {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/bottoken/getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"alert","username":"alert_bot"}}`))
		case r.URL.Path == "/bottoken/sendMessage":
			_, _ = w.Write([]byte(sendResponse))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	bot, err := tgbotapi.NewBotAPIWithClient("token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return bot
}

func TestTelegramNotifier(t *testing.T) {
	bot := newTestBot(t, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`)
	assert.NoError(t, NewTelegramNotifier(bot, 42).Notify(context.Background(), testMsg))
}

func TestTelegramNotifier_Errors(t *testing.T) {
	bot := newTestBot(t, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	assert.Error(t, NewTelegramNotifier(bot, 42).Notify(context.Background(), testMsg))
	assert.Error(t, NewTelegramNotifier(nil, 42).Notify(context.Background(), testMsg))
}
