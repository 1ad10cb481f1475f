package storage

import (
	"context"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/domain"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/llm/llmtest"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/prompt"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestUsageStore_RecordRunAndDay(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewUsageStore(client)
	ctx := context.Background()

	day := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	runs := []service.RunSummary{
		{State: domain.StateCompleted, Fragments: 3, Bytes: 40, Style: "meme", Generator: "gemini:gemini-2.5-flash", FinishedAt: day},
		{State: domain.StateCompleted, Fragments: 2, Bytes: 10, Style: "meme", Generator: "gemini:gemini-2.5-flash", FinishedAt: day},
		{State: domain.StateFailed, Fragments: 1, Bytes: 5, Style: "roast", Generator: "gemini:gemini-2.5-flash", FinishedAt: day},
		{State: domain.StateCancelled, Style: "meme", Generator: "ollama:llama3:instruct", FinishedAt: day},
	}
	for _, r := range runs {
		require.NoError(t, store.RecordRun(ctx, r))
	}

	u, err := store.Day(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14", u.Date)
	assert.Equal(t, int64(4), u.Runs)
	assert.Equal(t, int64(2), u.Completed)
	assert.Equal(t, int64(1), u.Failed)
	assert.Equal(t, int64(1), u.Cancelled)
	assert.Equal(t, int64(6), u.Fragments)
	assert.Equal(t, int64(55), u.Bytes)
	assert.Equal(t, map[string]int64{"meme": 3, "roast": 1}, u.Styles)
	assert.Equal(t, map[string]int64{"gemini:gemini-2.5-flash": 3, "ollama:llama3:instruct": 1}, u.Generators)

	ttl := mr.TTL("comments:usage:2026-03-14")
	assert.Equal(t, usageTTL, ttl)
}

func TestUsageStore_DaysAreSeparate(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewUsageStore(client)
	ctx := context.Background()

	mon := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	tue := mon.Add(24 * time.Hour)

	require.NoError(t, store.RecordRun(ctx, service.RunSummary{State: domain.StateCompleted, FinishedAt: mon}))
	require.NoError(t, store.RecordRun(ctx, service.RunSummary{State: domain.StateFailed, FinishedAt: tue}))

	u, err := store.Day(ctx, mon)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.Completed)
	assert.Zero(t, u.Failed)

	u, err = store.Day(ctx, tue)
	require.NoError(t, err)
	assert.Zero(t, u.Completed)
	assert.Equal(t, int64(1), u.Failed)
}

func TestUsageStore_EmptyDay(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewUsageStore(client)

	u, err := store.Day(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", u.Date)
	assert.Zero(t, u.Runs)
	assert.Nil(t, u.Styles)
}

func TestUsageStore_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewUsageStore(client)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	mr.Close()

	assert.Error(t, store.Ping(ctx))
	assert.Error(t, store.RecordRun(ctx, service.RunSummary{State: domain.StateCompleted}))
}

func TestUsageStore_ServiceRecordsFinishedRuns(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewUsageStore(client)

	tmpl, err := prompt.Parse("test", "{code}")
	require.NoError(t, err)
	svc := service.NewCommentService(&llmtest.Generator{Fragments: []string{"// a", "// b"}}, tmpl,
		service.WithUsageRecorder(store))

	run, err := svc.Start(context.Background(), domain.CodeSubmission{Code: "x"})
	require.NoError(t, err)
	for {
		if _, ok := run.Next(); !ok {
			break
		}
	}
	require.Equal(t, domain.StateCompleted, run.State())

	u, err := store.Day(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.Runs)
	assert.Equal(t, int64(1), u.Completed)
	assert.Equal(t, int64(2), u.Fragments)
	assert.Equal(t, int64(1), u.Styles["test"])
	assert.Equal(t, int64(1), u.Generators["fake"])
}
