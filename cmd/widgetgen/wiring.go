package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-widgetgen/internal/config"
	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/internal/metrics"
	"github.com/goliatone/go-widgetgen/internal/storage"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/genservice/cache"
	"github.com/goliatone/go-widgetgen/pkg/genservice/httpclient"
	"github.com/goliatone/go-widgetgen/pkg/genservice/llm"
	"github.com/goliatone/go-widgetgen/pkg/render"
)

// app bundles the long-lived collaborators shared by the subcommands.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	service  genservice.Service
	store    storage.Store
	themes   theme.ThemeSelector
	closers  []func() error
}

func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format), nil
}

// newApp builds the generation stack described by cfg: the LLM or remote
// backend, optionally recorded to Postgres and cached in Redis.
func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	svc, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if dsn := strings.TrimSpace(cfg.Postgres.DSN); dsn != "" {
		db, err := storage.Open(ctx, dsn, storage.PoolConfig{
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		repo := storage.NewRepository(db)
		if cfg.Postgres.Migrate {
			if err := repo.Migrate(ctx); err != nil {
				_ = a.Close()
				return nil, err
			}
		}
		a.store = repo
		if svc, err = storage.NewRecordingService(svc, repo, log); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	if url := strings.TrimSpace(cfg.Redis.URL); url != "" {
		cached, client, err := withCache(ctx, svc, url, cfg, log, a.metrics)
		if err != nil {
			// The cache is optional: run uncached when Redis is unreachable.
			log.WithError(err).Warn("redis unavailable, caching disabled", map[string]any{"url": redactURL(url)})
		} else {
			a.closers = append(a.closers, client.Close)
			svc = cached
		}
	}

	a.service = svc

	themes, err := buildThemes(cfg.Theme)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.themes = themes
	return a, nil
}

// Close releases database and cache connections.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (genservice.Service, error) {
	if cfg.Service.Backend == config.BackendRemote {
		return httpclient.New(cfg.Service.RemoteURL, httpclient.WithHTTPClient(&http.Client{Timeout: cfg.Service.Timeout}))
	}
	completer, err := buildCompleter(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	return llm.NewGenerator(completer,
		llm.WithLogger(log),
		llm.WithFallback(cfg.Service.Fallback),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
	)
}

func buildCompleter(ctx context.Context, cfg config.LLMConfig) (llm.Completer, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropicCompleter(cfg.APIKey, cfg.Model)
	case config.ProviderEino:
		return llm.NewEinoOpenAICompleter(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case config.ProviderOpenAI, "":
		return llm.NewOpenAICompleter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func withCache(ctx context.Context, next genservice.Service, url string, cfg *config.Config, log logger.Logger, rec cache.Recorder) (genservice.Service, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	svc, err := cache.New(next, client,
		cache.WithTTL(cfg.Redis.TTL),
		cache.WithLogger(log),
		cache.WithRecorder(rec),
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return svc, client, nil
}

// buildThemes loads the configured manifest. No manifest means no theming.
func buildThemes(cfg config.ThemeConfig) (theme.ThemeSelector, error) {
	if strings.TrimSpace(cfg.Manifest) == "" {
		return nil, nil
	}
	manifest, err := render.LoadThemeManifest(cfg.Manifest)
	if err != nil {
		return nil, err
	}
	return render.NewStaticSelector(cfg.Name, cfg.Variant, manifest)
}

// redactURL drops credentials before a URL is logged.
func redactURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	return scheme + "://" + rest
}
