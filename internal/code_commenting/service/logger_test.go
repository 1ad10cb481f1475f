package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/GoSim-25-26J-441/code-commenter/internal/api/http/middleware"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetLogLevel("info")
	})
	return &buf
}

func TestLogger_Levels(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(middleware.WithRequestID(context.Background(), "rid-1"))

	SetLogLevel("info")
	logger.LogDebugf("first_fragment", "run_id=%s", "r1")
	assert.Empty(t, buf.String())

	SetLogLevel("debug")
	logger.LogDebugf("first_fragment", "run_id=%s", "r1")
	assert.Contains(t, buf.String(), "[debug] request_id=rid-1 operation=first_fragment run_id=r1")

	buf.Reset()
	SetLogLevel("error")
	logger.LogWarnf("finish_run", "cancelled")
	logger.LogInfof("start_run", "started")
	assert.Empty(t, buf.String())
	logger.LogError("finish_run", errors.New("boom"))
	assert.Contains(t, buf.String(), "[error] request_id=rid-1 operation=finish_run error=boom")
}

func TestLogger_UnknownRequestID(t *testing.T) {
	buf := captureLog(t)

	NewLogger(context.Background()).LogInfof("start_run", "x=%d", 1)
	assert.Contains(t, buf.String(), "request_id=unknown operation=start_run x=1")
}
