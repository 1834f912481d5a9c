package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ngmaloney/coastal-activities/internal/app"
	"github.com/ngmaloney/coastal-activities/internal/config"
	"github.com/ngmaloney/coastal-activities/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Without stations outlooks still work for explicit station IDs and
	// fall back to weather-only ranking otherwise.
	err = a.EnsureStations(ctx, func(s string) { logger.Info("provisioning", "status", s) })
	if err != nil {
		logger.Warn("tide station list unavailable", "error", err)
	}

	srv := server.New(*cfg, a.Planner, a.Catalog, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
