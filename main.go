package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"respite/app/config"
	"respite/app/server"
	"respite/app/service/mediator"
	"respite/app/service/ratelimit"
	"respite/app/util/mylog"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Config load failed", "error", err)
		os.Exit(1)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		slog.Error("Logging init failed", "error", err)
		os.Exit(1)
	}

	do.Provide(di, func(i *do.Injector) (*ratelimit.Limiter, error) {
		c := do.MustInvoke[*config.Config](i)

		return ratelimit.New(ratelimit.Options{
			Window:      time.Duration(c.RateLimit.WindowMs) * time.Millisecond,
			MaxRequests: c.RateLimit.MaxRequests,
			SoftCap:     c.RateLimit.SoftCap,
		}), nil
	})
	do.Provide(di, mediator.New)
	do.Provide(di, server.New)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		slog.Info("Shutting down...")

		cancel()
	}()

	srv := do.MustInvoke[*server.Server](di)

	slog.Info("Service started")

	g, gctx := errgroup.WithContext(appCtx)
	g.Go(srv.Listen)
	g.Go(func() error {
		<-gctx.Done()

		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		slog.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
}
