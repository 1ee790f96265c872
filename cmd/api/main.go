package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/compliance-view/internal/application"
	appcompliance "github.com/bryanwahyu/compliance-view/internal/application/compliance"
	"github.com/bryanwahyu/compliance-view/internal/bootstrap"
	"github.com/bryanwahyu/compliance-view/internal/config"
	"github.com/bryanwahyu/compliance-view/internal/infra/httpserver"
	"github.com/bryanwahyu/compliance-view/internal/logging"
	"github.com/bryanwahyu/compliance-view/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// response store
	store, closeStore, err := bootstrap.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cache init error")
	}
	defer closeStore()

	metrics := middleware.NewMetrics("compliance_view")
	client := bootstrap.NewClient(cfg, store, logging.Component(log, "graphql"), metrics)
	view := &appcompliance.View{
		Client:   client,
		Clock:    application.SystemClock{},
		Log:      logging.Component(log, "view"),
		Observer: metrics,
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go limiter.Run(ctx)
	}

	handler := httpserver.NewRouter(httpserver.Options{
		View:           view,
		Metrics:        metrics,
		Health:         map[string]middleware.HealthChecker{"cache": &middleware.StoreHealthChecker{Store: store}},
		RateLimiter:    limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RenderWait:     cfg.Server.RenderWait,
		Logger:         log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("endpoint", client.Endpoint()).
			Str("cache", cfg.Cache.Driver).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
