package coindcx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://api.coindcx.com"
	tickerPath     = "/exchange/ticker"
)

var ErrUnexpectedStatus = errors.New("coindcx: unexpected status")

var _ exchange.TickerService = (*TickerService)(nil)

// tickerRecord last_price 可能是字符串、数字或 null
type tickerRecord struct {
	Market    string              `json:"market"`
	LastPrice decimal.NullDecimal `json:"last_price"`
}

type TickerService struct {
	cli     *http.Client
	baseURL string
	quote   string
}

type Option func(svc *TickerService)

func WithHTTPClient(cli *http.Client) Option {
	return func(svc *TickerService) {
		svc.cli = cli
	}
}

func WithBaseURL(baseURL string) Option {
	return func(svc *TickerService) {
		if baseURL != "" {
			svc.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func NewTickerService(quote string, timeout time.Duration, opts ...Option) *TickerService {
	svc := &TickerService{
		cli:     &http.Client{Timeout: timeout},
		baseURL: DefaultBaseURL,
		quote:   exchange.NormalizeSymbol(quote),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *TickerService) Name() string {
	return "coindcx"
}

func (svc *TickerService) Snapshot(ctx context.Context) (exchange.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.baseURL+tickerPath, nil)
	if err != nil {
		return nil, fmt.Errorf("coindcx: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := svc.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coindcx: fetch ticker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coindcx: read body: %w", err)
	}
	return svc.parse(body)
}

// parse 逐条解码, 单条记录格式错误只跳过该条
func (svc *TickerService) parse(body []byte) (exchange.Snapshot, error) {
	var raws []json.RawMessage
	if err := sonic.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("coindcx: decode ticker list: %w", err)
	}

	snapshot := make(exchange.Snapshot, len(raws))
	for _, raw := range raws {
		var rec tickerRecord
		if err := sonic.Unmarshal(raw, &rec); err != nil {
			slog.Debug("skip malformed ticker", "record", string(raw), "error", err)
			continue
		}
		if !exchange.HasQuote(rec.Market, svc.quote) {
			continue
		}
		if !rec.LastPrice.Valid || !rec.LastPrice.Decimal.IsPositive() {
			slog.Debug("skip ticker without valid price", "market", rec.Market)
			continue
		}
		snapshot[exchange.NormalizeSymbol(rec.Market)] = rec.LastPrice.Decimal
	}
	return snapshot, nil
}
