package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
)

const storeOpenTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"store_backend", cfg.Store.Backend,
		"broadcast_interval", cfg.Broadcast.Interval,
	)

	openCtx, cancelOpen := context.WithTimeout(context.Background(), storeOpenTimeout)
	st, err := store.Open(openCtx, cfg.Store, logger)
	cancelOpen()
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	stats := services.NewStats(st, logger)
	hub := handlers.NewHub(stats, logger, cfg.Broadcast.Interval)
	sseHandlers := handlers.NewSSEHandlers(stats, logger, cfg.Broadcast.Interval)

	srv := server.NewServer(stats, st, hub, sseHandlers, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	broadcastCtx, stopBroadcast := context.WithCancel(context.Background())
	go hub.Run(broadcastCtx)

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stopBroadcast()
		return hub.Close(ctx)
	})
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("closing store")
		return st.Close()
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
