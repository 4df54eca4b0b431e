package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KNICEX/price-alert/internal/entity"
	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/internal/service/notification"
	"github.com/KNICEX/price-alert/internal/service/strategy"
	"github.com/KNICEX/price-alert/pkg/decimalx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimalx.MustFromString(s)
}

type MockTickerService struct {
	mock.Mock
}

func (m *MockTickerService) Snapshot(ctx context.Context) (exchange.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(exchange.Snapshot), args.Error(1)
}

func (m *MockTickerService) Name() string {
	return "mock"
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockNotifier) Name() string {
	return "mock"
}

type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) Create(ctx context.Context, alert entity.Alert) (int64, error) {
	args := m.Called(ctx, alert)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepo) UpdateStatus(ctx context.Context, id int64, status int) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAlertRepo) FindRecent(ctx context.Context, symbol string, limit int) ([]entity.Alert, error) {
	args := m.Called(ctx, symbol, limit)
	return args.Get(0).([]entity.Alert), args.Error(1)
}

func (m *MockAlertRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

type recordingObserver struct {
	skipped   int
	completed int
	tracked   int
	alerts    int
}

func (r *recordingObserver) CycleSkipped(time.Time, error) { r.skipped++ }
func (r *recordingObserver) CycleCompleted(_ time.Time, tracked, alerts int) {
	r.completed++
	r.tracked = tracked
	r.alerts += alerts
}

func newTestEngine(t *testing.T, watch ...string) *strategy.ThresholdEngine {
	e, err := strategy.NewThresholdEngine(strategy.DefaultThresholds(), watch, strategy.WithClock(func() time.Time {
		return testNow
	}))
	require.NoError(t, err)
	return e
}

func TestPriceMonitorTask_Run(t *testing.T) {
	ctx := context.Background()
	tickerSvc := &MockTickerService{}
	tickerSvc.On("Snapshot", ctx).Return(exchange.Snapshot{"BTCINR": d("100"), "ETHINR": d("100"), "SHIBINR": d("1")}, nil).Once()
	tickerSvc.On("Snapshot", ctx).Return(exchange.Snapshot{"BTCINR": d("106"), "ETHINR": d("74"), "SHIBINR": d("0.1")}, nil).Once()

	notifier := &MockNotifier{}
	notifier.On("Notify", ctx, mock.MatchedBy(func(msg notification.Message) bool {
		return assert.ObjectsAreEqual(msg.Title, "📈 CRYPTO ALERT: BTCINR rose by 6.00%")
	})).Return(nil).Once()
	notifier.On("Notify", ctx, mock.MatchedBy(func(msg notification.Message) bool {
		return assert.ObjectsAreEqual(msg.Title, "🚨 CRYPTO ALERT: ETHINR dropped by 26.00%!")
	})).Return(errors.New("sms down")).Once()

	book := strategy.NewPriceBook()
	observer := &recordingObserver{}
	priceSvc := NewPriceMonitor(newTestEngine(t, "BTCINR"), book, NewAlertDispatcher(notifier, "INR"))
	task := NewPriceMonitorTask(tickerSvc, priceSvc, WithObserver(observer), WithIgnoreSymbols([]string{"shibinr"}))

	require.NoError(t, task.Run(ctx))
	require.NoError(t, task.Run(ctx))

	tickerSvc.AssertExpectations(t)
	notifier.AssertExpectations(t)
	assert.Equal(t, 2, observer.completed)
	assert.Equal(t, 2, observer.alerts)
	assert.Equal(t, 2, observer.tracked)

	// 发送失败不影响状态更新
	eth, ok := book.Get("ETHINR")
	require.True(t, ok)
	assert.True(t, eth.ReferenceHigh.Equal(d("74")))
	assert.True(t, eth.LastPrice.Equal(d("74")))

	_, ok = book.Get("SHIBINR")
	assert.False(t, ok)
}

func TestPriceMonitorTask_FetchFailure(t *testing.T) {
	ctx := context.Background()
	tickerSvc := &MockTickerService{}
	tickerSvc.On("Snapshot", ctx).Return(nil, errors.New("timeout")).Once()

	book := strategy.NewPriceBook()
	book.Put(strategy.PriceState{Symbol: "BTCINR", ReferenceHigh: d("100"), LastPrice: d("100")})
	before := book.Snapshot()

	observer := &recordingObserver{}
	notifier := &MockNotifier{}
	task := NewPriceMonitorTask(tickerSvc, NewPriceMonitor(newTestEngine(t), book, NewAlertDispatcher(notifier, "INR")), WithObserver(observer))

	err := task.Run(ctx)
	assert.ErrorContains(t, err, "timeout")
	assert.Equal(t, 1, observer.skipped)
	assert.Equal(t, 0, observer.completed)
	assert.Equal(t, before, book.Snapshot())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestPriceMonitor_StateTTL(t *testing.T) {
	ctx := context.Background()
	book := strategy.NewPriceBook()
	book.Put(strategy.PriceState{Symbol: "GONEINR", ReferenceHigh: d("1"), LastPrice: d("1"), LastUpdated: testNow.Add(-48 * time.Hour)})
	book.Put(strategy.PriceState{Symbol: "BTCINR", ReferenceHigh: d("1"), LastPrice: d("1"), LastUpdated: testNow.Add(-48 * time.Hour)})

	m := NewPriceMonitor(newTestEngine(t), book, NewAlertDispatcher(&MockNotifier{}, "INR"),
		WithStateTTL(24*time.Hour), WithClock(func() time.Time { return testNow }))

	_, err := m.Scan(ctx, exchange.Snapshot{"BTCINR": d("1")})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Tracked())
	_, ok := book.Get("BTCINR")
	assert.True(t, ok)
}

func TestPriceMonitor_NoPruneByDefault(t *testing.T) {
	book := strategy.NewPriceBook()
	book.Put(strategy.PriceState{Symbol: "GONEINR", ReferenceHigh: d("1"), LastPrice: d("1"), LastUpdated: testNow.Add(-480 * time.Hour)})

	m := NewPriceMonitor(newTestEngine(t), book, NewAlertDispatcher(&MockNotifier{}, "INR"))
	_, err := m.Scan(context.Background(), exchange.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Tracked())
}

func TestAlertDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	event := strategy.AlertEvent{
		Symbol:         "BTCINR",
		Type:           strategy.Drop,
		CurrentPrice:   d("74"),
		ReferencePrice: d("100"),
		ChangePercent:  d("-26"),
		Timestamp:      testNow,
	}

	testCases := []struct {
		name       string
		createID   int64
		createErr  error
		notifyErr  error
		wantStatus int
	}{
		{name: "delivered", createID: 1, wantStatus: entity.AlertStatusDelivered},
		{name: "notify failed", createID: 2, notifyErr: errors.New("down"), wantStatus: entity.AlertStatusFailed},
		{name: "repo failed", createErr: errors.New("db locked")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &MockAlertRepo{}
			r.On("Create", ctx, mock.MatchedBy(func(a entity.Alert) bool {
				return a.Symbol == "BTCINR" && a.BaseSymbol == "BTC" && a.QuoteSymbol == "INR" &&
					a.AlertType == "drop" && a.CurrentPrice == "74" && a.ReferencePrice == "100" &&
					a.ChangePercent == -26 && a.Status == entity.AlertStatusPending
			})).Return(tc.createID, tc.createErr).Once()
			if tc.createErr == nil {
				r.On("UpdateStatus", ctx, tc.createID, tc.wantStatus).Return(nil).Once()
			}

			n := &MockNotifier{}
			n.On("Notify", ctx, mock.Anything).Return(tc.notifyErr).Once()

			NewAlertDispatcher(n, "INR", WithAlertRepo(r)).Dispatch(ctx, event)

			r.AssertExpectations(t)
			n.AssertExpectations(t)
		})
	}
}

func TestFormatAlert(t *testing.T) {
	event := strategy.AlertEvent{
		Symbol:         "BTCINR",
		Type:           strategy.Drop,
		CurrentPrice:   d("74"),
		ReferencePrice: d("100"),
		ChangePercent:  d("-26"),
		Timestamp:      testNow,
	}
	msg := FormatAlert(event, "INR")
	assert.Equal(t, "🚨 CRYPTO ALERT: BTCINR dropped by 26.00%!", msg.Title)
	assert.Equal(t, "💰 Current Price: ₹74\n📈 Previous High: ₹100\n📊 Change: -26.00%\n⏰ Time: 2024-03-01 09:30:00", msg.Body)

	event.Type = strategy.StrongRise
	event.ChangePercent = d("11")
	event.CurrentPrice = d("111")
	msg = FormatAlert(event, "DOGE")
	assert.Equal(t, "🚀 CRYPTO ALERT: BTCINR surged by 11.00%!", msg.Title)
	assert.Contains(t, msg.Body, "💰 Current Price: 111 DOGE")
	assert.Contains(t, msg.Body, "📉 Previous Price: 100 DOGE")
	assert.Contains(t, msg.Body, "📊 Change: +11.00%")

	event.Type = strategy.MildRise
	event.ChangePercent = d("6")
	msg = FormatAlert(event, "USDT")
	assert.Equal(t, "📈 CRYPTO ALERT: BTCINR rose by 6.00%", msg.Title)
	assert.Contains(t, msg.Body, "$111")
}
