package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	"github.com/redis/go-redis/v9"
)

const (
	usageKeyPrefix = "comments:usage:"   // Daily counters: comments:usage:{yyyy-mm-dd}
	usageTTL       = 30 * 24 * time.Hour // Keep a month of daily counters
	dayLayout      = "2006-01-02"

	stylePrefix     = "style:"
	generatorPrefix = "generator:"
)

// DailyUsage is the aggregate of all runs finished on one UTC day.
type DailyUsage struct {
	Date       string           `json:"date"`
	Runs       int64            `json:"runs"`
	Completed  int64            `json:"completed"`
	Failed     int64            `json:"failed"`
	Cancelled  int64            `json:"cancelled"`
	Fragments  int64            `json:"fragments"`
	Bytes      int64            `json:"bytes"`
	Styles     map[string]int64 `json:"styles,omitempty"`
	Generators map[string]int64 `json:"generators,omitempty"`
}

// UsageStore keeps per-day run counters in Redis hashes.
type UsageStore struct {
	client *redis.Client
}

var _ service.UsageRecorder = (*UsageStore)(nil)

func NewUsageStore(client *redis.Client) *UsageStore {
	return &UsageStore{client: client}
}

func (s *UsageStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// RecordRun adds one finished run to the counters of its day.
func (s *UsageStore) RecordRun(ctx context.Context, sum service.RunSummary) error {
	finished := sum.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	key := usageKey(finished)

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "runs", 1)
	pipe.HIncrBy(ctx, key, string(sum.State), 1)
	pipe.HIncrBy(ctx, key, "fragments", int64(sum.Fragments))
	pipe.HIncrBy(ctx, key, "bytes", int64(sum.Bytes))
	if sum.Style != "" {
		pipe.HIncrBy(ctx, key, stylePrefix+sum.Style, 1)
	}
	if sum.Generator != "" {
		pipe.HIncrBy(ctx, key, generatorPrefix+sum.Generator, 1)
	}
	pipe.Expire(ctx, key, usageTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record run usage: %w", err)
	}
	return nil
}

// Day returns the counters for the UTC day containing t.
func (s *UsageStore) Day(ctx context.Context, t time.Time) (*DailyUsage, error) {
	fields, err := s.client.HGetAll(ctx, usageKey(t)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read usage: %w", err)
	}

	u := &DailyUsage{Date: t.UTC().Format(dayLayout)}
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("usage field %s: %w", field, err)
		}
		switch {
		case field == "runs":
			u.Runs = n
		case field == "completed":
			u.Completed = n
		case field == "failed":
			u.Failed = n
		case field == "cancelled":
			u.Cancelled = n
		case field == "fragments":
			u.Fragments = n
		case field == "bytes":
			u.Bytes = n
		case strings.HasPrefix(field, stylePrefix):
			if u.Styles == nil {
				u.Styles = make(map[string]int64)
			}
			u.Styles[strings.TrimPrefix(field, stylePrefix)] = n
		case strings.HasPrefix(field, generatorPrefix):
			if u.Generators == nil {
				u.Generators = make(map[string]int64)
			}
			u.Generators[strings.TrimPrefix(field, generatorPrefix)] = n
		}
	}
	return u, nil
}

func usageKey(t time.Time) string {
	return usageKeyPrefix + t.UTC().Format(dayLayout)
}
