package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/GoSim-25-26J-441/code-commenter/config"
	cronjob "github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/cron"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/llm"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/prompt"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	storage "github.com/GoSim-25-26J-441/code-commenter/internal/storage/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// App is the fully wired service. Nothing is routable until NewApp succeeds.
type App struct {
	Router   *gin.Engine
	Service  *service.CommentService
	Reporter *cronjob.Reporter

	redis *redis.Client
}

// NewApp builds the application from cfg. gen may be nil, in which case the
// generator configured in cfg.Generation is created.
func NewApp(ctx context.Context, cfg *config.Config, gen llm.Generator) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	SetGinMode(cfg.App.Environment)
	service.SetLogLevel(cfg.App.LogLevel)

	tmpl, err := prompt.Resolve(cfg.Prompt.Style, cfg.Prompt.TemplateFile)
	if err != nil {
		return nil, err
	}

	if gen == nil {
		gen, err = llm.New(ctx, cfg.Generation)
		if err != nil {
			return nil, fmt.Errorf("generation client: %w", err)
		}
	}

	app := &App{}

	var usage *storage.UsageStore
	opts := []service.Option{service.WithMetrics(service.NewMetrics())}
	if cfg.Redis.URL != "" {
		client, err := OpenRedis(ctx, RedisOptions{URL: cfg.Redis.URL})
		if err != nil {
			return nil, err
		}
		app.redis = client
		usage = storage.NewUsageStore(client)
		opts = append(opts, service.WithUsageRecorder(usage))
		log.Printf("usage counters enabled (redis)")
	}

	app.Service = service.NewCommentService(gen, tmpl, opts...)

	router, err := BuildRouter(RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		Service:        app.Service,
		Usage:          usage,
		APIKey:         cfg.Server.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		PageMode:       cfg.Server.PageMode,
		ErrorMarker:    cfg.Generation.ErrorMarker,
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Router = router

	if cfg.App.MetricsCron != "" {
		var reader cronjob.UsageReader
		if usage != nil {
			reader = usage
		}
		app.Reporter = cronjob.NewReporter(cfg.App.MetricsCron, app.Service.Metrics(), reader)
	}

	log.Printf("generator=%s style=%s page=%s", gen.Name(), tmpl.Name(), cfg.Server.PageMode)
	return app, nil
}

// Close releases the Redis connection and stops the reporter.
func (a *App) Close() {
	if a.Reporter != nil {
		a.Reporter.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
}
