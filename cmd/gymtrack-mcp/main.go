package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/gymtrack/internal/config"
	"github.com/meltforce/gymtrack/internal/mcp"
	"github.com/meltforce/gymtrack/internal/repo"
	"github.com/meltforce/gymtrack/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	baseURL := flag.String("base-url", "http://localhost:8080", "public URL prefix for resource locators")
	flag.Parse()

	// MCP speaks JSON-RPC on stdout; keep logs on stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ds := &mcp.Local{
		Exercises: repo.NewExercises(st),
		Workouts:  repo.NewWorkouts(st),
		Base:      *baseURL,
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return store.OpenSqlite(cfg.Database.Path)
	case "postgres":
		return store.OpenPostgres(ctx, cfg.Database.DSN())
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
