package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/assistant"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/platform/deepseek"
	"github.com/pageza/recipebox/backend/internal/platform/gemini"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, log); err != nil {
		return err
	}

	// Drafts and rate limits live in Redis when it is configured. Without it
	// drafts stay in process memory and the assistant endpoints are not
	// limited.
	var (
		drafts      service.DraftStore = service.NewMemoryDraftStore()
		limiterConn redis.Cmdable
	)
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg, log)
		if err != nil {
			return err
		}
		defer client.Close()
		drafts = service.NewRedisDraftStore(client)
		limiterConn = client
	} else {
		log.Warn().Msg("redis not configured, using in-memory drafts")
	}

	completer, closeCompleter, err := newCompleter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCompleter()

	recipeRepo := database.NewRecipeRepository(db)
	freezerRepo := database.NewFreezerRepository(db)
	ai := assistant.New(completer, log)

	svc := api.Services{
		Sessions:          service.NewSessionService(cfg.PINHash, cfg.JWTSecret, cfg.SessionTTL),
		Recipes:           service.NewRecipeService(recipeRepo, drafts, ai, freezerRepo, log),
		Freezer:           service.NewFreezerService(freezerRepo, log),
		AssistantLimiter:  middleware.NewAssistantRateLimiter(limiterConn, cfg.RateLimitRequests, cfg.RateLimitWindow),
		LowStockThreshold: cfg.LowStockThreshold,
	}
	srv := server.New(cfg, db, svc, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCompleter builds the configured assistant backend.
func newCompleter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (assistant.Completer, func(), error) {
	if cfg.AssistantAPIKey() == "" {
		log.Warn().Str("provider", cfg.AssistantProvider).Msg("no assistant api key, AI features disabled")
		return assistant.Unconfigured{}, func() {}, nil
	}
	switch cfg.AssistantProvider {
	case "deepseek":
		client, err := deepseek.NewClient(cfg.DeepSeekAPIKey, cfg.DeepSeekURL, cfg.DeepSeekModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	default:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	}
}
