package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/gymtrack/internal/config"
	"github.com/meltforce/gymtrack/internal/identity"
	"github.com/meltforce/gymtrack/internal/server"
	"github.com/meltforce/gymtrack/internal/store"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymTrack starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	st, err := openStore(ctx, cfg, log, *migrateOnly)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}
	defer st.Close()

	srv := server.New(st, newVerifier(cfg, log), log)

	// Start server over tsnet or plain HTTP.
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openStore opens the configured document-store backend. Postgres migrations
// run here; the sqlite backend applies its schema on open.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger, migrateOnly bool) (store.Store, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		if migrateOnly {
			return nil, nil
		}
		st, err := store.OpenSqlite(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite store opened", "path", cfg.Database.Path)
		return st, nil
	case "postgres":
		dsn := cfg.Database.DSN()
		if err := store.RunMigrations(dsn, "migrations"); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
		if migrateOnly {
			return nil, nil
		}
		st, err := store.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("postgres store connected")
		return st, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

// newVerifier picks the token verifier: Google ID tokens when an audience is
// configured, otherwise a static dev token.
func newVerifier(cfg *config.Config, log *slog.Logger) identity.Verifier {
	if cfg.Auth.Audience != "" {
		return identity.NewGoogleVerifier(cfg.Auth.Audience)
	}

	token := cfg.Auth.DevToken
	if token == "" {
		token = "dev"
	}
	subject := cfg.Auth.DevSubject
	if subject == "" {
		subject = "dev"
	}
	log.Warn("no auth audience configured, using static dev verifier", "subject", subject)
	return identity.StaticVerifier{token: {Subject: subject}}
}
