package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/config"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/database"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/hub"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/logging"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/sentiment"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/server"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/store"
	"github.com/rahulvat-s/EmotiveChatFlow/internal/store/redisstore"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupStore(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (domain.MessageStore, func()) {
	switch cfg.MessageStore {
	case config.StoreRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		return redisstore.New(client, clock), func() { _ = client.Close() }

	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := database.RunMigrations(ctx, pool); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		return database.NewMessageStore(pool, clock), pool.Close

	default:
		return store.NewMemoryStore(clock), func() {}
	}
}

func runGracefulShutdown(srv *server.Server, h *hub.Hub, analyzer *sentiment.Analyzer) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		// The analyzer goes first so no deferred task broadcasts into a
		// stopped hub.
		analyzer.Stop()
		h.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()
	ctx := context.Background()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "store", cfg.MessageStore)

	messageStore, closeStore := setupStore(ctx, cfg, clock)
	defer closeStore()

	h := hub.New(clock, cfg.MaxClients)
	analyzer := sentiment.NewAnalyzer(messageStore, h, clock, cfg.SentimentDelay)

	srv := server.New(cfg, messageStore, h, analyzer, clock)

	done := runGracefulShutdown(srv, h, analyzer)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
