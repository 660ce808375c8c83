package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"jobguard/internal/api"
	"jobguard/internal/api/handlers"
	"jobguard/internal/config"
	"jobguard/internal/domain/services"
	"jobguard/internal/domain/services/ai"
	"jobguard/internal/infrastructure/cache"
	"jobguard/internal/infrastructure/database"
	"jobguard/internal/infrastructure/database/repository"
	"jobguard/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting JobGuard")

	// An incomplete phrase catalog means every listing would score LOW;
	// refuse to serve rather than run misconfigured
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional infrastructure: the screening pipeline works without Redis
	// (memory-only cache, no rate limiting) and without Postgres (no history)
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing with in-memory cache only")
			redisCache = nil
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	var repo *repository.AnalysisRepository
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("database unavailable, continuing without history")
		} else {
			repo = repository.NewAnalysisRepository(db.Pool())
		}
	}
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	// Domain services
	catalog := services.NewCatalog(cfg.Catalog)
	scorer := services.NewScorer(catalog, log)

	llmClient := ai.NewLLMClient(ai.LLMConfig{
		Provider:     cfg.LLM.Provider,
		ClaudeAPIKey: cfg.LLM.ClaudeAPIKey,
		OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
		Timeout:      cfg.LLM.Timeout,
		ClaudeAPIURL: cfg.LLM.ClaudeAPIURL,
		OpenAIAPIURL: cfg.LLM.OpenAIAPIURL,
	}, log)
	explainer := ai.NewExplainer(llmClient, log)

	explanationCache, err := cache.NewExplanationCache(cfg.Cache.MaxEntries, redisCache, cfg.Cache.RedisTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create explanation cache")
	}

	var store services.AnalysisStore
	if repo != nil {
		store = repo
	}
	analyzer := services.NewJobAnalyzer(catalog, scorer, explainer, explanationCache, store, log)

	var ocrClient *services.OCRClient
	if cfg.OCR.Enabled {
		ocrClient = services.NewOCRClient(services.OCRConfig{
			APIKey:   cfg.OCR.APIKey,
			APIURL:   cfg.OCR.APIURL,
			Language: cfg.OCR.Language,
			Timeout:  cfg.OCR.Timeout,
		}, log)
	}

	// HTTP server
	h := handlers.NewHandlers(handlers.Dependencies{
		Analyzer: analyzer,
		Catalog:  catalog,
		OCR:      ocrClient,
		Repo:     repo,
		Cache:    redisCache,
		Version:  cfg.App.Version,
		Logger:   log,
	})
	router := api.NewRouter(*cfg, h, redisCache, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("stopped")
}
