// Actiond is an action-item extraction daemon with an HTTP API.
//
// It derives action items from free-form notes, using a local or remote
// language model when one is configured and a line-based heuristic otherwise,
// and persists notes and items in SQLite.
//
// Configuration is loaded from ~/.config/actiond/config.yaml and environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	actiond
//
//	# Configure via environment
//	SERVER_PORT=8090 EXTRACTION_PROVIDER=heuristic actiond
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/actiond/internal/config"
	"github.com/fyrsmithlabs/actiond/internal/extraction"
	httpserver "github.com/fyrsmithlabs/actiond/internal/http"
	"github.com/fyrsmithlabs/actiond/internal/items"
	"github.com/fyrsmithlabs/actiond/internal/logging"
	"github.com/fyrsmithlabs/actiond/internal/store"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/actiond/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  actiond           Start the actiond daemon\n")
			fmt.Fprintf(os.Stderr, "  actiond version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("actiond by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the actiond server and blocks until the context is cancelled.
//
// It loads configuration, initializes the logger, opens the SQLite store,
// builds the extractor (model-backed completer plus heuristic fallback),
// wires the HTTP server, and performs graceful shutdown on cancellation.
func run(ctx context.Context, configPath string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger) // Best-effort sync on shutdown
	}()

	logger.Info("Starting actiond",
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.Extraction.Provider),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	logger.Info("Store opened", zap.String("path", cfg.Store.Path))

	completer, err := extraction.NewCompleter(extraction.Config{
		Provider:  cfg.Extraction.Provider,
		Model:     cfg.Extraction.Model,
		BaseURL:   cfg.Extraction.BaseURL,
		APIKey:    cfg.Extraction.APIKey.Value(),
		MaxTokens: cfg.Extraction.MaxTokens,
		Timeout:   cfg.Extraction.Timeout.Duration(),
	})
	if err != nil {
		return fmt.Errorf("failed to create completer: %w", err)
	}

	extractor := extraction.NewExtractor(completer, cfg.Extraction.Timeout.Duration(), logger)

	logger.Info("Extractor initialized",
		zap.String("provider", cfg.Extraction.Provider),
		zap.Bool("model_backed", completer != nil))

	svc, err := items.NewService(st, extractor, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	srv, err := httpserver.NewServer(svc, logger, &httpserver.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
