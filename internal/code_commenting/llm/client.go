package llm

import (
	"context"
	"errors"
)

var ErrEmptyPrompt = errors.New("llm: empty prompt")

// Chunk is one element of a generation stream. A chunk with a non-nil Err is
// always the last value sent before the channel is closed.
type Chunk struct {
	Text string
	Err  error
}

// Generator is a remote text-completion service invoked in streaming mode.
type Generator interface {
	// Name identifies the backend in logs and health output.
	Name() string

	// Stream starts one generation call. Errors that happen before the remote
	// call is established are returned directly; later ones arrive as a final
	// Chunk. The channel is closed when the remote sequence ends or ctx is done.
	Stream(ctx context.Context, prompt string) (<-chan Chunk, error)
}

// send delivers c unless ctx is done first.
func send(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// sendText forwards non-empty text.
func sendText(ctx context.Context, out chan<- Chunk, text string) bool {
	if text == "" {
		return ctx.Err() == nil
	}
	return send(ctx, out, Chunk{Text: text})
}

// sendErr reports err unless it was caused by our own cancellation.
func sendErr(ctx context.Context, out chan<- Chunk, err error) {
	if err == nil || ctx.Err() != nil {
		return
	}
	send(ctx, out, Chunk{Err: err})
}
