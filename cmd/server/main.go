package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"floradmin/internal/apiclient"
	"floradmin/internal/cache"
	"floradmin/internal/config"
	"floradmin/internal/handler"
	"floradmin/internal/logger"
	"floradmin/internal/metrics"
	"floradmin/internal/resource"
	"floradmin/internal/router"
	"floradmin/internal/service"
	"floradmin/internal/session"
	"floradmin/internal/view"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		// Sessions and list caching degrade to misses without Redis.
		log.Warnw("redis unavailable, continuing without cache", "addr", cfg.RedisAddr, "error", err)
	}
	cancelPing()

	collector := metrics.New()
	sessions := session.NewStore(session.NewRedisBackend(cacheClient), cfg.SessionTTL, log)
	clients := apiclient.NewFactory(cfg.APIBaseURL, cfg.APITimeout, collector)

	resources := resource.NewSet(resource.Deps{
		Cache:          cacheClient,
		Log:            log,
		Metrics:        collector,
		CacheTTL:       cfg.ListCacheTTL,
		ReconcileDelay: cfg.ReconcileDelay,
	})
	authService := service.NewAuthService(clients.Client(""), sessions, collector, log)

	renderer, err := view.New()
	if err != nil {
		log.Fatalw("templates", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, renderer, sessions, collector, router.NewHandlers(handler.Deps{
		Clients:      clients,
		Auth:         authService,
		Sessions:     sessions,
		Resources:    resources,
		Log:          log,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.RunSweeper(ctx, cfg.SessionSweep)

	addr := ":" + cfg.ServerPort
	go func() {
		log.Infow("console listening", "addr", addr, "backend", cfg.APIBaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server start", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown", "error", err)
	}
}
