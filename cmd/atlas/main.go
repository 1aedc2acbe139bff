package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NovaEd-Consulting/atlas/internal/api"
	"github.com/NovaEd-Consulting/atlas/internal/config"
	"github.com/NovaEd-Consulting/atlas/internal/engine"
	"github.com/NovaEd-Consulting/atlas/internal/events"
	"github.com/NovaEd-Consulting/atlas/internal/interaction"
	"github.com/NovaEd-Consulting/atlas/internal/knowledge"
	"github.com/NovaEd-Consulting/atlas/internal/learning"
	"github.com/NovaEd-Consulting/atlas/internal/session"
	"github.com/NovaEd-Consulting/atlas/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("atlas starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database archive (optional — the engine is in-memory either way)
	var archive *store.Archive
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		archive = db
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — interactions will not be archived")
	}

	// NATS telemetry (optional)
	var bus *events.Client
	if cfg.NatsURL != "" {
		ec, err := events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer ec.Close()
		bus = ec
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — running without telemetry")
	}

	// In-memory stores, seeded with the consultancy catalog
	kb := knowledge.NewStore(knowledge.Seed())
	eng := engine.New(kb, learning.NewStore(), interaction.NewLog(), session.NewStore(), engine.Options{
		Events:  bus,
		Archive: archive,
		Logger:  slog.Default(),
	})
	slog.Info("engine ready", "knowledgeEntries", kb.Size())

	// HTTP API
	srv := api.NewServer(cfg.Port, eng, api.Options{
		APIToken:       cfg.APIToken,
		DefaultSession: cfg.DefaultSession,
		ReplyDelayUnit: time.Duration(cfg.ReplyDelayMS) * time.Millisecond,
		Logger:         slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if bus != nil {
		if err := bus.Publish(events.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"entries":   kb.Size(),
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("atlas ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("atlas stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
