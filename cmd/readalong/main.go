// Readalong is an alignment daemon that maps speech recognizer output onto
// Japanese text, so reading apps can highlight each word as it is spoken.
//
// Usage:
//
//	readalong [flags]
//	readalong --config /path/to/readalong.yaml
//
//	@title			readalong API
//	@version		1.0
//	@description	Aligns speech recognizer output with Japanese text.
//	@BasePath		/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/health"
	"github.com/nadzzz/readalong/internal/pipeline"
	"github.com/nadzzz/readalong/internal/store"
	"github.com/nadzzz/readalong/internal/tokenizer"
	"github.com/nadzzz/readalong/internal/transport"
	grpctransport "github.com/nadzzz/readalong/internal/transport/grpc"
	httptransport "github.com/nadzzz/readalong/internal/transport/http"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/readalong.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("readalong %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("readalong starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Open the token cache.
	var cache tokenizer.Cache
	var db *store.Store
	if cfg.Tokenizer.Cache {
		db, err = store.Open(cfg.Store.Path)
		if err != nil {
			slog.Error("failed to open store", "path", cfg.Store.Path, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		cache = db
		if n, err := db.Prune(ctx, cfg.Store.MaxAge); err != nil {
			slog.Warn("pruning token cache failed", "error", err)
		} else if n > 0 {
			slog.Info("pruned token cache", "entries", n)
		}
	}

	// Initialize the tokenizer and recognizer backends.
	tok, err := pipeline.NewTokenizer(cfg.Tokenizer, cache)
	if err != nil {
		slog.Error("failed to create tokenizer", "error", err)
		os.Exit(1)
	}
	defer tok.Close()
	slog.Info("using tokenizer", "backend", tok.Name(), "cache", cache != nil)

	rec, err := pipeline.NewRecognizer(cfg.Recognizer)
	if err != nil {
		slog.Error("failed to create recognizer", "error", err)
		os.Exit(1)
	}
	if rec != nil {
		defer rec.Close()
		slog.Info("using recognizer", "backend", rec.Name())
	} else {
		slog.Info("recognition disabled, audio requests will be rejected")
	}

	// Initialize enabled transports.
	var transports []transport.Transport

	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port, cfg.Transports.HTTP.MaxBodyBytes))
	}

	if len(transports) == 0 {
		slog.Error("no transports enabled, enable at least one in config")
		os.Exit(1)
	}

	// Create the pipeline.
	p := pipeline.New(tok, rec, pipeline.Options(cfg.Pipeline)...)

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort)
	if db != nil {
		healthServer.AddCheck("store", db.Ping)
	}
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, p.Handle); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Periodically drop stale cache entries.
	if db != nil && cfg.Store.MaxAge > 0 {
		go pruneLoop(ctx, db, cfg.Store.MaxAge)
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	slog.Info("readalong ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")

	// Close all transports gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("readalong stopped")
}

func pruneLoop(ctx context.Context, db *store.Store, maxAge time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := db.Prune(ctx, maxAge); err != nil {
				slog.Warn("pruning token cache failed", "error", err)
			} else if n > 0 {
				slog.Debug("pruned token cache", "entries", n)
			}
		}
	}
}
