package bootstrap

import (
	"slices"
	"time"

	httpapi "github.com/GoSim-25-26J-441/code-commenter/internal/api/http"
	"github.com/GoSim-25-26J-441/code-commenter/internal/api/http/middleware"
	commenthttp "github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/http"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	storage "github.com/GoSim-25-26J-441/code-commenter/internal/storage/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Service     *service.CommentService
	Usage       *storage.UsageStore

	APIKey         string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	PageMode       string
	ErrorMarker    string
}

func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())

	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	}

	// keep the interfaces nil when Redis is not configured
	var pinger httpapi.Pinger
	var usage commenthttp.UsageReader
	if dep.Usage != nil {
		pinger = dep.Usage
		usage = dep.Usage
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Service.GeneratorName(), pinger)
	healthHandler.RegisterRoutes(r)

	r.GET("/metrics", commenthttp.MetricsHandler(dep.Service, usage))

	if dep.PageMode != "off" {
		if err := commenthttp.RegisterPage(r, dep.PageMode, dep.Service.Style()); err != nil {
			return nil, err
		}
	}

	api := r.Group("")
	if dep.APIKey != "" {
		api.Use(middleware.APIKeyMiddleware(dep.APIKey))
	}
	if dep.RateLimitRPS > 0 {
		api.Use(middleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst).Middleware())
	}

	commenthttp.New(dep.Service, dep.ErrorMarker).Register(api)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "X-API-Key", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, commenthttp.StreamStatusTrailer},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
