// Package llmtest provides a scripted Generator for tests.
package llmtest

import (
	"context"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/llm"
)

// Script decides what one call yields.
type Script func(prompt string) (fragments []string, err error)

// Generator replays fragments and then optionally fails.
type Generator struct {
	// Fragments are yielded in order when Script is nil.
	Fragments []string
	// Err is sent after the fragments when non-nil.
	Err error
	// StartErr makes Stream fail before any channel is returned.
	StartErr error
	// Delay is slept before each fragment.
	Delay time.Duration
	// Script overrides Fragments and Err per prompt.
	Script Script

	mu      sync.Mutex
	prompts []string
}

var _ llm.Generator = (*Generator)(nil)

func (g *Generator) Name() string { return "fake" }

func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func (g *Generator) Stream(ctx context.Context, prompt string) (<-chan llm.Chunk, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.StartErr != nil {
		return nil, g.StartErr
	}

	fragments, streamErr := g.Fragments, g.Err
	if g.Script != nil {
		fragments, streamErr = g.Script(prompt)
	}

	out := make(chan llm.Chunk)
	go func() {
		defer close(out)
		for _, f := range fragments {
			if g.Delay > 0 {
				select {
				case <-time.After(g.Delay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- llm.Chunk{Text: f}:
			case <-ctx.Done():
				return
			}
		}
		if streamErr != nil {
			select {
			case out <- llm.Chunk{Err: streamErr}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}
