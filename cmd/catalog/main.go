package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/internal/bootstrap"
	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
	"ProductCatalog/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load(service, config.DefaultSources)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	log.Debug("config loaded", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer closeStore()

	var tokens *auth.TokenMaker
	if cfg.Auth.JWTSecret != "" {
		if tokens, err = auth.NewTokenMaker(cfg.Auth.JWTSecret); err != nil {
			log.Fatal("token maker", zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rules := catalog.DefaultRules.WithNameMax(cfg.Validation.NameMax)
	s := catalog.NewServer(store, log, rules)

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        reg,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsToken:    cfg.Metrics.Token,
		Tokens:          tokens,
		WritesPerMinute: cfg.RateLimit.WritesPerMinute,
	})

	opts := kit.ServerOptions{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
	}
	if err := kit.RunHTTPServer(ctx, opts, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}
