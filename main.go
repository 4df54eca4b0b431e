package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KNICEX/price-alert/internal/repo"
	"github.com/KNICEX/price-alert/internal/schedule"
	"github.com/KNICEX/price-alert/internal/service/monitor"
	"github.com/KNICEX/price-alert/internal/service/status"
	"github.com/KNICEX/price-alert/internal/service/strategy"
	"github.com/KNICEX/price-alert/ioc"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {
	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	// 兼容 .env 中的密钥
	_ = godotenv.Load()

	ioc.SetDefaults()
	ioc.BindEnv()

	viper.SetConfigFile(*file)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			slog.Warn("config file not found, using defaults and environment", "file", *file)
			return
		}
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	initViper()
	cfg := ioc.LoadConfig()
	initLogger(cfg.Log.Level)

	monitorCfg := cfg.Monitor
	engine := ioc.InitThresholdEngine(monitorCfg)
	tickerSvc := ioc.InitTickerService(cfg.Exchange, monitorCfg.QuoteCurrency)
	notifier := ioc.InitNotifier(cfg.Notifier)

	db := ioc.InitDB(cfg.DB)
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	alertRepo := repo.NewAlertRepo(db)

	dispatcher := monitor.NewAlertDispatcher(notifier, monitorCfg.QuoteCurrency, monitor.WithAlertRepo(alertRepo))
	priceMonitor := monitor.NewPriceMonitor(engine, strategy.NewPriceBook(), dispatcher, monitor.WithStateTTL(monitorCfg.StateTTL))

	state := status.NewState()
	task := monitor.NewPriceMonitorTask(tickerSvc, priceMonitor,
		monitor.WithObserver(state),
		monitor.WithIgnoreSymbols(monitorCfg.IgnoreSymbols),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := cfg.Status.Addr; addr != "" {
		srv := status.NewServer(addr, status.NewMux(status.Scope{
			Exchange:      tickerSvc.Name(),
			QuoteCurrency: monitorCfg.QuoteCurrency,
			WatchListSize: engine.WatchListSize(),
			Interval:      monitorCfg.Interval,
			Thresholds:    engine.Thresholds(),
		}, state, alertRepo))
		if err := srv.Start(); err != nil {
			panic(err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	slog.Info("starting price alert monitor",
		"exchange", tickerSvc.Name(),
		"quote", monitorCfg.QuoteCurrency,
		"interval", monitorCfg.Interval,
		"watch_list", engine.WatchListSize(),
		"notifiers", notifier.Len(),
	)
	schedule.NewRunner(task, monitorCfg.Interval).Run(ctx)
}
