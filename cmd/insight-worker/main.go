package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilelens/insight-engine/internal/app"
	"github.com/profilelens/insight-engine/internal/config"
	db "github.com/profilelens/insight-engine/internal/storage"
)

func main() {
	mode := flag.String("mode", "worker", "Service mode (worker, once, load)")
	username := flag.String("account", "", "Account username (for once mode)")
	input := flag.String("input", "", "Scraped payload file (for load mode)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg.PostgresDSN, cfg.DBConnectTimeout, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	application := app.New(cfg, database, &logger)

	// Start health server in background
	go func() {
		if err := application.StartHealthServer(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	if err := runMode(ctx, application, *mode, *username, *input); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode, username, input string) error {
	switch mode {
	case "worker":
		return application.RunWorker(ctx)
	case "once":
		return application.RunOnce(ctx, username)
	case "load":
		return application.RunLoad(ctx, input)
	default:
		log.Fatalf("Usage: %s --mode=[worker|once|load]", os.Args[0])

		return nil
	}
}
