package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/KNICEX/price-alert/internal/entity"
	"github.com/KNICEX/price-alert/internal/service/exchange"
	"github.com/KNICEX/price-alert/internal/service/strategy"
)

const (
	defaultAlertLimit = 20
	maxAlertLimit     = 200
)

// Scope 监控范围, 启动后不变
type Scope struct {
	Exchange      string
	QuoteCurrency string
	WatchListSize int
	Interval      time.Duration
	Thresholds    strategy.Thresholds
}

// AlertHistory 已记录的告警, 只读
type AlertHistory interface {
	FindRecent(ctx context.Context, symbol string, limit int) ([]entity.Alert, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type Report struct {
	Exchange      string              `json:"exchange"`
	QuoteCurrency string              `json:"quote_currency"`
	WatchListSize int                 `json:"watch_list_size"`
	IntervalSec   int64               `json:"interval_sec"`
	Thresholds    strategy.Thresholds `json:"thresholds"`
	Tracked       int64               `json:"tracked_symbols"`
	Cycles        int64               `json:"cycles"`
	SkippedCycles int64               `json:"skipped_cycles"`
	Alerts        int64               `json:"alerts"`
	Alerts24h     *int64              `json:"alerts_24h,omitempty"`
	LastCycleUnix int64               `json:"last_cycle_unix"`
	LastSkipUnix  int64               `json:"last_skip_unix,omitempty"`
	LastSkipError string              `json:"last_skip_error,omitempty"`
	UptimeSec     int64               `json:"uptime_sec"`
}

type AlertView struct {
	Id             int64     `json:"id"`
	Symbol         string    `json:"symbol"`
	Type           string    `json:"type"`
	CurrentPrice   string    `json:"current_price"`
	ReferencePrice string    `json:"reference_price"`
	ChangePercent  float64   `json:"change_percent"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

var statusNames = map[int]string{
	entity.AlertStatusPending:   "pending",
	entity.AlertStatusDelivered: "delivered",
	entity.AlertStatusFailed:    "failed",
}

// NewMux history 为 nil 时不提供 /alerts, /status 也不统计 alerts_24h
func NewMux(scope Scope, state *State, history AlertHistory) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		report := Report{
			Exchange:      scope.Exchange,
			QuoteCurrency: scope.QuoteCurrency,
			WatchListSize: scope.WatchListSize,
			IntervalSec:   int64(scope.Interval.Seconds()),
			Thresholds:    scope.Thresholds,
			Tracked:       state.Tracked(),
			Cycles:        state.Cycles(),
			SkippedCycles: state.SkippedCycles(),
			Alerts:        state.Alerts(),
			UptimeSec:     int64(state.Uptime().Seconds()),
		}
		if t := state.LastCycle(); !t.IsZero() {
			report.LastCycleUnix = t.Unix()
		}
		if at, reason := state.LastSkip(); !at.IsZero() {
			report.LastSkipUnix = at.Unix()
			report.LastSkipError = reason
		}
		if history != nil {
			n, err := history.CountSince(r.Context(), time.Now().Add(-24*time.Hour))
			if err != nil {
				slog.Error("count recent alerts failed", "error", err)
			} else {
				report.Alerts24h = &n
			}
		}
		writeJSON(w, http.StatusOK, report)
	})

	if history != nil {
		mux.HandleFunc("GET /alerts", func(w http.ResponseWriter, r *http.Request) {
			limit := defaultAlertLimit
			if raw := r.URL.Query().Get("limit"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n <= 0 {
					http.Error(w, "invalid limit", http.StatusBadRequest)
					return
				}
				limit = min(n, maxAlertLimit)
			}
			symbol := exchange.NormalizeSymbol(r.URL.Query().Get("symbol"))

			alerts, err := history.FindRecent(r.Context(), symbol, limit)
			if err != nil {
				slog.Error("find recent alerts failed", "symbol", symbol, "error", err)
				http.Error(w, "alert history unavailable", http.StatusInternalServerError)
				return
			}
			views := make([]AlertView, 0, len(alerts))
			for _, a := range alerts {
				views = append(views, AlertView{
					Id:             a.Id,
					Symbol:         a.Symbol,
					Type:           a.AlertType,
					CurrentPrice:   a.CurrentPrice,
					ReferencePrice: a.ReferencePrice,
					ChangePercent:  a.ChangePercent,
					Status:         statusNames[a.Status],
					CreatedAt:      a.CreatedAt,
				})
			}
			writeJSON(w, http.StatusOK, views)
		})
	}

	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start 监听失败时直接返回错误, 之后在后台提供服务
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("status server stopped", "error", err)
		}
	}()
	slog.Info("status server listening", "addr", ln.Addr().String())
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
