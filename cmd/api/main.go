package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/db"
	httpx "github.com/mcarreira/lingohub/internal/http"
	"github.com/mcarreira/lingohub/internal/observability"
)

func main() {
	// Load the config set up; missing required config is the only fatal
	// condition in the process
	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// optional tracing
	if cfg.OtelEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "lingohub-api", cfg.OtelEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	startupCtx, cancel := config.WithTimeout(10 * time.Second)

	if err := db.EnsureSchema(startupCtx, pool); err != nil {
		cancel()
		log.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureTeacherUser(startupCtx, pool, cfg); err != nil {
		cancel()
		log.Error("teacher bootstrap failed", "err", err)
		os.Exit(1)
	}

	cancel()

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	// set up routers with the log
	router := httpx.NewRouter(log, pool, cfg, prom)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
