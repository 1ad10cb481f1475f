package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/domain"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/llm"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/prompt"
	"github.com/google/uuid"
)

const usageRecordTimeout = 2 * time.Second

// RunSummary describes a finished run. It never carries code or generated text.
type RunSummary struct {
	RunID         string
	Style         string
	Generator     string
	State         domain.StreamState
	Fragments     int
	Bytes         int
	FirstFragment time.Duration
	Duration      time.Duration
	FinishedAt    time.Time
}

// UsageRecorder persists aggregate counters for finished runs.
type UsageRecorder interface {
	RecordRun(ctx context.Context, s RunSummary) error
}

// CommentService turns a code submission into a stream of commented fragments.
type CommentService struct {
	gen     llm.Generator
	tmpl    prompt.Template
	metrics *Metrics
	usage   UsageRecorder
}

type Option func(*CommentService)

func WithMetrics(m *Metrics) Option {
	return func(s *CommentService) { s.metrics = m }
}

func WithUsageRecorder(u UsageRecorder) Option {
	return func(s *CommentService) { s.usage = u }
}

func NewCommentService(gen llm.Generator, tmpl prompt.Template, opts ...Option) *CommentService {
	s := &CommentService{gen: gen, tmpl: tmpl}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s
}

func (s *CommentService) Metrics() *Metrics { return s.metrics }

func (s *CommentService) GeneratorName() string { return s.gen.Name() }

func (s *CommentService) Style() string { return s.tmpl.Name() }

// Start issues exactly one streaming generation call for sub. The returned Run
// must be closed by the caller.
func (s *CommentService) Start(ctx context.Context, sub domain.CodeSubmission) (*Run, error) {
	logger := NewLogger(ctx)
	s.metrics.recordRequest()

	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		ID:      uuid.New().String(),
		ctx:     runCtx,
		cancel:  cancel,
		svc:     s,
		logger:  logger,
		state:   domain.StateIdle,
		started: time.Now(),
	}

	logger.LogInfof("start_run", "run_id=%s generator=%s style=%s code_bytes=%d",
		run.ID, s.gen.Name(), s.tmpl.Name(), len(sub.Code))

	chunks, err := s.gen.Stream(runCtx, s.tmpl.Build(sub.Code))
	if err != nil {
		cancel()
		s.metrics.recordRejected()
		logger.LogError("start_run", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStreamingFailed, err)
	}

	run.chunks = chunks
	run.state = domain.StateStreaming
	return run, nil
}

// Run is a single-pass sequence of fragments for one submission.
// It is not safe for use by more than one goroutine.
type Run struct {
	ID string

	ctx    context.Context
	cancel context.CancelFunc
	chunks <-chan llm.Chunk
	svc    *CommentService
	logger *Logger

	state         domain.StreamState
	err           error
	started       time.Time
	firstFragment time.Duration
	fragments     int
	bytes         int
}

// Next blocks until the next fragment is available. It returns false once the
// stream has ended; State and Err then describe why.
func (r *Run) Next() (domain.Fragment, bool) {
	if r.state != domain.StateStreaming {
		return "", false
	}

	var c llm.Chunk
	for {
		var ok bool
		c, ok = <-r.chunks
		switch {
		case !ok && r.ctx.Err() != nil:
			r.finish(domain.StateCancelled, nil)
			return "", false
		case !ok:
			r.finish(domain.StateCompleted, nil)
			return "", false
		case c.Err != nil:
			r.finish(domain.StateFailed, fmt.Errorf("%w: %w", domain.ErrStreamingFailed, c.Err))
			return "", false
		}
		// empty fragments are never forwarded
		if c.Text != "" {
			break
		}
	}

	frag := domain.Fragment(c.Text)
	if r.fragments == 0 {
		r.firstFragment = time.Since(r.started)
		r.svc.metrics.recordFirstFragment(r.firstFragment)
		r.logger.LogDebugf("first_fragment", "run_id=%s after=%s", r.ID, r.firstFragment)
	}
	r.fragments++
	r.bytes += len(frag)
	r.svc.metrics.recordFragment(frag)
	return frag, true
}

// Close stops the upstream call. A run that is still streaming becomes cancelled.
func (r *Run) Close() {
	if !r.state.Terminal() {
		r.finish(domain.StateCancelled, nil)
	}
	r.cancel()
}

func (r *Run) State() domain.StreamState { return r.state }

func (r *Run) Err() error { return r.err }

func (r *Run) Fragments() int { return r.fragments }

func (r *Run) finish(state domain.StreamState, err error) {
	r.state = state
	r.err = err
	r.cancel()

	elapsed := time.Since(r.started)
	r.svc.metrics.recordOutcome(state)

	switch state {
	case domain.StateFailed:
		r.logger.LogError("finish_run", fmt.Errorf("run_id=%s fragments=%d: %w", r.ID, r.fragments, err))
	case domain.StateCancelled:
		r.logger.LogWarnf("finish_run", "run_id=%s cancelled after %d fragments", r.ID, r.fragments)
	default:
		r.logger.LogInfof("finish_run", "run_id=%s state=%s fragments=%d bytes=%d duration=%s",
			r.ID, state, r.fragments, r.bytes, elapsed)
	}

	if r.svc.usage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.ctx), usageRecordTimeout)
	defer cancel()
	summary := RunSummary{
		RunID:         r.ID,
		Style:         r.svc.tmpl.Name(),
		Generator:     r.svc.gen.Name(),
		State:         state,
		Fragments:     r.fragments,
		Bytes:         r.bytes,
		FirstFragment: r.firstFragment,
		Duration:      elapsed,
		FinishedAt:    time.Now().UTC(),
	}
	if err := r.svc.usage.RecordRun(ctx, summary); err != nil {
		r.logger.LogWarnf("record_usage", "run_id=%s: %v", r.ID, err)
	}
}
