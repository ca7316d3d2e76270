package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentguard/internal/audit"
	"contentguard/internal/config"
	"contentguard/pkg/logger"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default is ./contentguard.yaml)")
	flag.Parse()

	l := logger.New()
	cfg, err := config.Load(config.New(), *cfgFile)
	if err != nil {
		l.Errorf("config: %v", err)
		os.Exit(1)
	}
	l.SetDebug(cfg.Debug)

	svc := audit.NewFromConfig(cfg, l)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      logRequest(l, newMux(svc, l)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // a cold cache fetches every sitemap with retries
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.ServerAddr)
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
	l.Infof("bye")
}
