package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/veracity/internal/bootstrap"
	"github.com/jonesrussell/veracity/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting veracity service",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
		logger.Strings("sources", cfg.Sources.Enabled),
	)

	components, err := bootstrap.NewHTTPComponents(cfg, log)
	if err != nil {
		log.Error("Failed to build components", logger.Error(err))
		return 1
	}
	if components.Cache != nil {
		defer func() { _ = components.Cache.Close() }()
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- components.Server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		log.Error("Server error", logger.Error(err))
		return 1
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), bootstrap.HTTPShutdownTimeout())
		defer cancel()

		if err = components.Server.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", logger.Error(err))
			return 1
		}

		log.Info("Server stopped gracefully")
	}
	return 0
}
