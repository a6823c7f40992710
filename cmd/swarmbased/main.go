package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jzftran/swarmbase-core/internal/config"
	"github.com/jzftran/swarmbase-core/internal/logging"
	"github.com/jzftran/swarmbase-core/internal/natsbus"
	"github.com/jzftran/swarmbase-core/internal/store"
	"github.com/jzftran/swarmbase-core/internal/vault"
	"github.com/jzftran/swarmbase-core/internal/web"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("swarmbased %s\n", version)
	case "serve":
		if err := runServe(); err != nil {
			slog.Error("serve failed", "error", err)
			os.Exit(1)
		}
	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			slog.Error("export failed", "error", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: swarmbased <command>\n\nCommands:\n  serve      Start the swarmbase backend service\n  export     Archive data and workspaces to a tar.zst bundle\n  version    Print version\n")
}

func runServe() error {
	logging.Init(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.Info("starting swarmbase backend", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SQLite store
	db, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()
	slog.Info("store initialized", "path", cfg.Store.Path)

	// Embedded NATS
	bus, err := natsbus.New(cfg.NATS)
	if err != nil {
		return fmt.Errorf("init nats: %w", err)
	}
	defer bus.Close()
	slog.Info("nats started", "port", cfg.NATS.Port)

	// Secrets vault
	if cfg.Vault.Passphrase == "" {
		slog.Warn("vault passphrase not set, secrets sealed with an empty key")
	}
	v := vault.New(cfg.Vault.Passphrase)

	// HTTP API
	if cfg.Web.Enabled {
		srv := web.NewServer(db, bus, v, cfg.Web, cfg.LLM.DefaultModel, version)
		go func() {
			if err := srv.Start(ctx); err != nil {
				slog.Error("web server error", "error", err)
			}
		}()
		slog.Info("web server started", "port", cfg.Web.Port)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("shutting down", "signal", sig)
	cancel()

	return nil
}
