package http

import (
	"context"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	storage "github.com/GoSim-25-26J-441/code-commenter/internal/storage/redis"
	"github.com/gin-gonic/gin"
)

// UsageReader is implemented by the Redis usage store.
type UsageReader interface {
	Day(ctx context.Context, t time.Time) (*storage.DailyUsage, error)
}

type metricsResponse struct {
	Generator string                  `json:"generator"`
	Style     string                  `json:"style"`
	Process   service.MetricsSnapshot `json:"process"`
	Today     *storage.DailyUsage     `json:"today,omitempty"`
}

// MetricsHandler exposes process metrics and, when Redis is configured, today's usage.
func MetricsHandler(svc *service.CommentService, usage UsageReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := metricsResponse{
			Generator: svc.GeneratorName(),
			Style:     svc.Style(),
			Process:   svc.Metrics().Snapshot(),
		}
		if usage != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			today, err := usage.Day(ctx, time.Now())
			if err != nil {
				service.NewLogger(c.Request.Context()).LogError("metrics_usage", err)
			} else {
				resp.Today = today
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
