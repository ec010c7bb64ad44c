package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aprameyak/philly/internal/api"
	"github.com/aprameyak/philly/internal/config"
	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/internal/llm"
	"github.com/aprameyak/philly/internal/redis"
	"github.com/aprameyak/philly/internal/service"
	"github.com/aprameyak/philly/internal/storage/postgres"
	"github.com/aprameyak/philly/internal/workers"
	"github.com/aprameyak/philly/pkg/e"
	"github.com/aprameyak/philly/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	WebhookQ   *redis.WebhookQueue
	Sender     *service.WebhookSender
	Refresher  *workers.CacheRefresher
}

func InitComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Components, error) {
	log.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	log.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, log)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	incidentCache := redis.NewIncidentCache(redisClient)
	webhookQueue := redis.NewWebhookQueue(redisClient.Client, "achievements:queue")

	var reasoner reasoningClient = llm.NewClient(cfg.LLM, log)
	if cfg.LLM.Disabled {
		log.Warn("LLM disabled, scores will use the severity fallback")
		reasoner = noopReasoner{}
	}

	source := service.NewCachedIncidentSource(incidentCache, storage.Incident, time.Minute, log)

	scoreSvc := service.NewScoreService(source, reasoner, log, cfg.LLM.NearestK)
	reportSvc := service.NewReportService(storage.Incident, storage.Profile, incidentCache, reasoner, webhookQueue, log)
	profileSvc := service.NewProfileService(storage.Profile, log)
	authSvc := service.NewAuthService(storage.User, log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	adminSvc := service.NewAdminIncidentService(storage.Incident, incidentCache)
	statsSvc := service.NewStatsService(storage.Stat)

	svc := service.NewService(scoreSvc, reportSvc, profileSvc, authSvc, adminSvc, statsSvc)

	httpServer := api.NewServer(cfg, log, svc)
	log.Info("Initialized server")

	return &Components{
		logger:     log,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		WebhookQ:   webhookQueue,
		Sender:     service.NewWebhookSender(log, cfg.Webhook, webhookQueue),
		Refresher:  workers.NewCacheRefresher(storage.Incident, incidentCache, 30*time.Second, log),
	}, nil
}

// reasoningClient is what the services need from the LLM client.
type reasoningClient interface {
	service.Summarizer
	service.SingleScorer
}

// noopReasoner fails every call, pushing the scorer onto its deterministic
// fallback path.
type noopReasoner struct{}

func (noopReasoner) Summarize(context.Context, []domain.IncidentEvidence, float64, float64, time.Time) (domain.Summary, error) {
	return domain.Summary{}, e.ErrExternalService
}

func (noopReasoner) ScoreSingle(context.Context, string, string) (int, error) {
	return 0, e.ErrExternalService
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
