package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	storage "github.com/GoSim-25-26J-441/code-commenter/internal/storage/redis"
	"github.com/robfig/cron/v3"
)

// UsageReader is implemented by the Redis usage store.
type UsageReader interface {
	Day(ctx context.Context, t time.Time) (*storage.DailyUsage, error)
}

// Reporter periodically logs the in-process metrics and today's usage totals.
type Reporter struct {
	spec    string
	metrics *service.Metrics
	usage   UsageReader
	cron    *cron.Cron
}

func NewReporter(spec string, metrics *service.Metrics, usage UsageReader) *Reporter {
	return &Reporter{
		spec:    spec,
		metrics: metrics,
		usage:   usage,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start initializes cron tasks
func (r *Reporter) Start() error {
	if _, err := r.cron.AddFunc(r.spec, r.Report); err != nil {
		return err
	}

	log.Printf("Metrics reporter started (schedule %q)", r.spec)
	r.cron.Start()
	return nil
}

// Stop waits for a running report to finish.
func (r *Reporter) Stop() {
	<-r.cron.Stop().Done()
}

// Report writes one metrics line, plus a usage line when Redis is configured.
func (r *Reporter) Report() {
	s := r.metrics.Snapshot()
	log.Printf("[metrics] requests=%d rejected=%d completed=%d failed=%d cancelled=%d fragments=%d bytes=%d avg_first_fragment_ms=%.1f error_rate=%.1f%%",
		s.Requests, s.Rejected, s.Completed, s.Failed, s.Cancelled, s.Fragments, s.Bytes, s.AvgFirstFragMs, s.UpstreamErrorRate)

	if r.usage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u, err := r.usage.Day(ctx, time.Now())
	if err != nil {
		log.Printf("[metrics] usage lookup failed: %v", err)
		return
	}
	log.Printf("[metrics] date=%s runs=%d completed=%d failed=%d cancelled=%d fragments=%d",
		u.Date, u.Runs, u.Completed, u.Failed, u.Cancelled, u.Fragments)
}
