package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"wordquest/adapters/jsonfile"
	mem "wordquest/adapters/memory"
	redisAdapter "wordquest/adapters/redis"
	sqlxAdapter "wordquest/adapters/sqlx"
	"wordquest/api/httpapi"
	"wordquest/config"
	"wordquest/content"
	"wordquest/engine"
	"wordquest/quest"
	"wordquest/realtime"
)

// App aggregates the assembled server components.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Hub     *realtime.Hub
	Catalog *content.Catalog
	Store   *engine.Store
	Handler http.Handler
	Server  *http.Server
}

func provideConfig(_ context.Context) (*config.Config, error) {
	if path := os.Getenv("WORDQUEST_CONFIG"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return setupLogging(cfg)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

func provideCatalog(cfg *config.Config) *content.Catalog {
	if cfg.Content.Dir != "" {
		return content.NewCatalog(os.DirFS(cfg.Content.Dir))
	}
	return content.Default()
}

func provideStorage(ctx context.Context, cfg *config.Config) (engine.Storage, error) {
	return setupStorage(ctx, cfg)
}

func provideStore(ctx context.Context, hub *realtime.Hub, storage engine.Storage, cfg *config.Config, logger *slog.Logger) *engine.Store {
	return quest.New(ctx,
		quest.WithRealtime(hub),
		quest.WithStorage(storage),
		quest.WithDispatchMode(engine.DispatchAsync),
		quest.WithWebhooks(cfg.Integrations.WebhookEndpoints),
		quest.WithLogger(logger),
	)
}

func provideHandler(store *engine.Store, catalog *content.Catalog, hub *realtime.Hub, cfg *config.Config) http.Handler {
	return httpapi.NewMux(store, catalog, hub, httpapi.Options{
		PathPrefix:       cfg.Server.PathPrefix,
		AllowCORSOrigin:  cfg.Server.CORSOrigin,
		APIKeys:          cfg.Security.APIKeys,
		RateLimitEnabled: cfg.Security.EnableRateLimit,
		RateLimitRPM:     cfg.Security.RateLimit.RequestsPerMinute,
		RateLimitBurst:   cfg.Security.RateLimit.BurstSize,
	})
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// setupLogging configures the logger based on configuration.
func setupLogging(cfg *config.Config) *slog.Logger {
	var out *os.File
	switch cfg.Logging.Output {
	case "stderr":
		out = os.Stderr
	default:
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	var handler slog.Handler
	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	if len(cfg.Logging.Attributes) > 0 {
		handler = handler.WithAttrs(convertAttributes(cfg.Logging.Attributes))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// convertAttributes converts map[string]string to []slog.Attr.
func convertAttributes(attrs map[string]string) []slog.Attr {
	var result []slog.Attr
	for k, v := range attrs {
		result = append(result, slog.String(k, v))
	}
	return result
}

// setupStorage creates the appropriate storage adapter based on configuration.
func setupStorage(_ context.Context, cfg *config.Config) (engine.Storage, error) {
	switch cfg.Storage.Adapter {
	case "memory":
		return mem.New(), nil
	case "redis":
		return redisAdapter.New(cfg.Storage.Redis)
	case "sql":
		return sqlxAdapter.New(cfg.Storage.SQL)
	case "file":
		return jsonfile.New(cfg.Storage.File.Path), nil
	default:
		return nil, fmt.Errorf("unknown storage adapter: %s", cfg.Storage.Adapter)
	}
}
