package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/trip-planner/internal/domain/activityswap"
	"github.com/yanqian/trip-planner/internal/domain/advisor"
	"github.com/yanqian/trip-planner/internal/domain/generation"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	"github.com/yanqian/trip-planner/internal/domain/places"
	"github.com/yanqian/trip-planner/internal/infra/config"
	"github.com/yanqian/trip-planner/internal/infra/itinerarystore"
	"github.com/yanqian/trip-planner/internal/infra/llm/anthropic"
	"github.com/yanqian/trip-planner/internal/infra/llm/gemini"
	"github.com/yanqian/trip-planner/internal/infra/llm/ollama"
	"github.com/yanqian/trip-planner/internal/infra/llm/openai"
	"github.com/yanqian/trip-planner/internal/infra/places/googleplaces"
	"github.com/yanqian/trip-planner/internal/infra/places/wikipedia"
	"github.com/yanqian/trip-planner/internal/infra/rawarchive"
)

func provideGenerationBackend(cfg *config.Config, logger *slog.Logger) (generation.Backend, error) {
	g := cfg.Generation
	var (
		backend generation.Backend
		err     error
	)
	switch strings.ToLower(g.Provider) {
	case config.ProviderOpenAI:
		backend, err = openai.NewClient(g.APIKey, g.BaseURL, g.Model)
	case config.ProviderGemini:
		backend, err = gemini.NewClient(context.Background(), g.APIKey, g.BaseURL, g.Model)
	case config.ProviderAnthropic:
		backend, err = anthropic.NewClient(g.APIKey, g.BaseURL, g.Model)
	default:
		backend = ollama.NewClient(g.BaseURL, g.Model)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s backend: %w", g.Provider, err)
	}
	logger.Info("generation backend selected", "provider", backend.Name(), "model", backend.Model())
	return backend, nil
}

func provideGenerationService(cfg *config.Config, backend generation.Backend, logger *slog.Logger) generation.Service {
	g := cfg.Generation
	return generation.NewService(generation.Config{
		ProbeTimeout: g.ProbeTimeout,
		Timeout:      g.Timeout,
		Temperature:  g.Temperature,
		TopP:         g.TopP,
		MaxTokens:    g.MaxTokens,
		Stop:         g.Stop,
	}, backend, logger)
}

func providePlacesService(cfg *config.Config, logger *slog.Logger) places.Service {
	p := cfg.Places
	var tiers []places.Tier
	if strings.TrimSpace(p.GoogleAPIKey) != "" {
		client, err := googleplaces.NewClient(p.GoogleAPIKey, p.GoogleBaseURL, p.RequestsPerSecond)
		if err != nil {
			logger.Error("google places client unavailable, skipping tier", "error", err)
		} else {
			tiers = append(tiers, places.Tier{Source: places.SourceGoogle, Finder: client})
		}
	} else {
		logger.Info("google places api key not set, lookups start at wikipedia")
	}
	if p.WikipediaEnabled {
		tiers = append(tiers, places.Tier{Source: places.SourceWikipedia, Finder: wikipedia.NewClient(p.WikipediaBaseURL, p.UserAgent)})
	}
	return places.NewService(places.Config{
		PerCategory:    p.PerCategory,
		Timeout:        p.Timeout,
		MaxConcurrency: p.MaxConcurrency,
		CacheTTL:       p.CacheTTL,
	}, tiers, logger)
}

func provideRawArchive(cfg *config.Config, logger *slog.Logger) itinerary.RawArchive {
	a := cfg.Archive
	if !a.Enabled {
		logger.Info("raw output archive disabled")
		return nil
	}
	archive, err := rawarchive.NewS3Archive(a.Endpoint, a.AccessKey, a.SecretKey, a.Bucket, a.Region, logger)
	if err != nil {
		logger.Error("raw output archive unavailable, using memory archive", "error", err)
		return rawarchive.NewMemoryArchive()
	}
	logger.Info("raw output archive enabled", "bucket", a.Bucket)
	return archive
}

// provideItineraryStore prefers postgres, then valkey, then memory. Durable stores get a memory slot in front.
func provideItineraryStore(cfg *config.Config, logger *slog.Logger) itinerary.CurrentRepository {
	historyCap := cfg.Store.HistoryCap
	if store := providePostgresStore(cfg, logger); store != nil {
		return itinerarystore.NewLayeredStore(store, logger)
	}
	if store := provideValkeyStore(cfg, logger); store != nil {
		return itinerarystore.NewLayeredStore(store, logger)
	}
	logger.Info("itinerary store using process memory")
	return itinerarystore.NewMemoryStore(historyCap)
}

func providePostgresStore(cfg *config.Config, logger *slog.Logger) *itinerarystore.PostgresStore {
	dsn := strings.TrimSpace(cfg.Store.Postgres.DSN)
	if dsn == "" {
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, skipping postgres store", "error", err)
		return nil
	}
	if cfg.Store.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Store.Postgres.MaxConns
	}
	if cfg.Store.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Store.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, skipping postgres store", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, skipping postgres store", "error", err)
		pool.Close()
		return nil
	}
	store := itinerarystore.NewPostgresStore(pool, cfg.Store.HistoryCap)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, skipping postgres store", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("itinerary postgres store enabled")
	return store
}

func provideValkeyStore(cfg *config.Config, logger *slog.Logger) *itinerarystore.ValkeyStore {
	if !cfg.Store.Redis.Enabled {
		return nil
	}
	opt, err := buildValkeyOptions(cfg.Store.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, skipping valkey store", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, skipping valkey store", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, skipping valkey store", "error", err)
		client.Close()
		return nil
	}
	logger.Info("itinerary valkey store enabled", "addr", cfg.Store.Redis.Addr)
	return itinerarystore.NewValkeyStore(client, cfg.Store.Redis.Prefix, cfg.Store.HistoryCap)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideItineraryService(cfg *config.Config, placesSvc places.Service, generationSvc generation.Service, archive itinerary.RawArchive, logger *slog.Logger) itinerary.Service {
	return itinerary.NewService(itinerary.Config{
		PromptMaxDays: cfg.Generation.MaxDays,
		MaxTripDays:   cfg.Itinerary.MaxTripDays,
		PlaceHints:    cfg.Itinerary.PlaceHints,
	}, placesSvc, generationSvc, archive, logger)
}

func provideSwapService(generationSvc generation.Service, logger *slog.Logger) activityswap.Service {
	return activityswap.NewService(generationSvc, logger)
}

func provideAdvisorService(cfg *config.Config, generationSvc generation.Service, logger *slog.Logger) advisor.Service {
	return advisor.NewService(advisor.Config{
		HistoryTurns:   cfg.Advisor.HistoryTurns,
		MaxSuggestions: cfg.Advisor.MaxSuggestions,
		MaxMessageLen:  cfg.Advisor.MaxMessageLen,
	}, generationSvc, logger)
}
