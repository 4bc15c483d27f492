package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/iudanet/gophtodo/internal/client/cli"
	"github.com/iudanet/gophtodo/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() { os.Exit(run()) }

func run() int {
	// .env.local необязателен
	_ = godotenv.Load(".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := cli.Config{
		ServerURL: envOr("GOPHTODO_SERVER", cli.DefaultServerURL),
		DBPath:    envOr("GOPHTODO_DB", cli.DefaultDBPath),
		Version:   fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit),
	}

	if err := cli.Execute(ctx, cfg, iocli.NewStdio(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
