package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"linkaudit/internal/app"
	"linkaudit/internal/config"
	"linkaudit/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath, logger.New())
	if err != nil {
		logger.New().Errorf("config: %v", err)
		os.Exit(1)
	}
	l := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	a, err := app.New(cfg, l)
	if err != nil {
		l.Errorf("setup: %v", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newRouter(a),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if err := a.Close(); err != nil {
		l.Errorf("close: %v", err)
	}
	l.Infof("bye")
}
