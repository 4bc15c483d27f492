package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/gophtodo/internal/config"
	"github.com/iudanet/gophtodo/internal/crypto"
	"github.com/iudanet/gophtodo/internal/logging"
	"github.com/iudanet/gophtodo/internal/server"
	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/service"
	"github.com/iudanet/gophtodo/internal/server/storage/sqlstore"
	"github.com/iudanet/gophtodo/internal/session"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to .env config file")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)
	logger.Info("GophTodo Server starting",
		slog.String("version", Version),
		slog.String("driver", cfg.DBDriver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.New(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	sessions := session.NewStore(cfg.SessionTTLDuration(),
		session.WithSweepInterval(cfg.SweepInterval()),
		session.WithLogger(logger),
	)
	defer sessions.Stop()

	hasher := crypto.NewHasher(cfg.KDFIterations)

	handler := server.NewRouter(server.Deps{
		Logger:  logger,
		Auth:    service.NewAuthService(logger, store, sessions, hasher),
		Todos:   service.NewTodoService(logger, store, store),
		Tags:    service.NewTagService(logger, store),
		DB:      store,
		Version: Version,
		Cookies: handlers.CookieConfig{
			TTL:    sessions.TTL(),
			Secure: cfg.CookieSecure,
		},
	})

	if err := server.Run(ctx, logger, cfg.ServerAddr, handler); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("GophTodo Server stopped")
	return nil
}

func printVersion() {
	fmt.Printf("GophTodo Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
