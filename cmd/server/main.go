// Package main is the entry point for the HueWeave theming backend.
//
// The server exposes the theming core (palette state, undo history,
// batch wallpaper extraction, saved themes) over REST and a WebSocket
// event stream, for the desktop frontend to consume.
//
// Usage:
//
//	# Defaults (loopback, port 8765)
//	./hueweave-server
//
//	# Explicit config file and development logging
//	./hueweave-server -config ~/.config/hueweave/config.toml -dev
//
// Configuration precedence: built-in defaults, then the TOML file,
// then HUEWEAVE_* environment variables.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/infrastructure/config"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/server"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to TOML config file")
		port    = flag.String("port", "", "override listen port")
		dev     = flag.Bool("dev", false, "development mode (colored logs, debug level)")
	)
	flag.Parse()

	cfg := config.LoadOrDefault(*cfgPath)
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("server init failed", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown incomplete", zap.Error(err))
	}
}
