package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lwmacct/251217-go-pkg-minactor/internal/config"
	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
	promadapter "github.com/lwmacct/251217-go-pkg-minactor/pkg/adapters/prometheus"
)

// app 命令共享的运行环境
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// load 读取配置并应用命令行覆盖
func (a *app) load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	if cmd.IsSet("dispatcher") {
		cfg.Actor.Dispatcher = cmd.String("dispatcher")
	}
	if cmd.IsSet("workers") {
		cfg.Actor.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("metrics-addr") {
		cfg.Metrics.Addr = cmd.String("metrics-addr")
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return ctx, err
	}
	actor.SetLogger(logger)

	a.cfg = cfg
	a.logger = logger
	return ctx, nil
}

// run 创建 Actor 系统运行 fn，结束后关闭系统
// 配置了 metrics.addr 时同时提供 /metrics
func (a *app) run(ctx context.Context, fn func(ctx context.Context, sys *actor.System) error) error {
	var metrics actor.Metrics
	reg := prometheus.NewRegistry()
	if a.cfg.Metrics.Addr != "" {
		metrics = promadapter.NewActorMetrics(reg)
	}

	sys := actor.NewSystemWithConfig(a.cfg.Actor.System, a.cfg.SystemConfig(a.logger, metrics))

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	if a.cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              a.cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.logger.Info("metrics server started", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-runCtx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		return fn(runCtx, sys)
	})

	err := g.Wait()
	if serr := sys.ShutdownWithTimeout(a.cfg.Actor.ShutdownTimeout); serr != nil {
		a.logger.Warn("actor system shutdown incomplete", "error", serr)
	}

	stats := sys.Stats()
	a.logger.Info("actor system stats",
		"actors", stats.TotalActors,
		"told", stats.TotalMessages,
		"processed", stats.ProcessedMsgs,
		"faults", stats.Faults,
		"rejected", stats.Rejected,
		"avg_latency", stats.AverageLatency)
	return err
}
