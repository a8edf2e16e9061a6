package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/vbonduro/folio/internal/api"
	"github.com/vbonduro/folio/internal/config"
	"github.com/vbonduro/folio/internal/db"
	"github.com/vbonduro/folio/internal/gallery"
	"github.com/vbonduro/folio/internal/logging"
	"github.com/vbonduro/folio/internal/session"
	"github.com/vbonduro/folio/internal/upload"
	"github.com/vbonduro/folio/internal/upload/local"
	"github.com/vbonduro/folio/internal/vision"
	claudevision "github.com/vbonduro/folio/internal/vision/claude"
	ollamavision "github.com/vbonduro/folio/internal/vision/ollama"
	"github.com/vbonduro/folio/internal/web"
	"github.com/vbonduro/folio/internal/web/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := newSessionKV(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "backend", cfg.SessionBackend, "error", err)
		return
	}
	defer closeKV()

	uploads, err := local.NewStore(cfg.UploadPath, logger)
	if err != nil {
		logger.Error("failed to initialize upload store", "error", err)
		return
	}
	go upload.RunSweeper(ctx, uploads, cfg.UploadSweepInterval, cfg.UploadMaxAge, logger)

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	controller := gallery.NewController(client, logger)
	if err := controller.Load(ctx); err != nil {
		// Not fatal: the first page view retries.
		logger.Warn("initial gallery load failed", "api_base_url", cfg.APIBaseURL, "error", err)
	}

	server := web.NewServer(web.Deps{
		Gallery:   controller,
		Auth:      client,
		Sessions:  session.NewStore(kv),
		Uploads:   uploads,
		Suggester: newSuggester(cfg, logger),
		Templates: templates.FS,
	}, web.Options{
		CookieSecure:   cfg.CookieSecure,
		MaxUploadBytes: cfg.MaxUploadBytes,
		ImageOrigin:    origin(cfg.APIBaseURL),
	}, logger)

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
	}
}

// newSessionKV opens the configured session backend. The returned func
// releases it.
func newSessionKV(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.KV, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("using redis session store", "addr", cfg.Redis.Addr)
		return session.NewRedisKV(client), func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}, nil
	case "memory":
		logger.Warn("using in-memory session store; logins are lost on restart")
		return session.NewMemoryKV(), func() {}, nil
	default:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite session store", "path", cfg.DBPath)
		return session.NewSQLiteKV(database), func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}, nil
	}
}

func newSuggester(cfg *config.Config, logger *slog.Logger) vision.Suggester {
	switch cfg.VisionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude title suggestions", "model", cfg.ClaudeModel)
		return claudevision.NewSuggester(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama title suggestions", "model", cfg.OllamaModel)
		return ollamavision.NewSuggester(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil
	}
}

// origin reduces a base URL to scheme://host for the CSP.
func origin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
