package domain

import "errors"

var (
	ErrMissingCode     = errors.New("code is required")
	ErrStreamingFailed = errors.New("generation stream failed")
)

// CodeSubmission is the body of a single "add comments" request.
type CodeSubmission struct {
	Code string `json:"code"`
}

// Fragment is one chunk of generator output, forwarded as-is.
type Fragment string

type StreamState string

const (
	StateIdle      StreamState = "idle"
	StateStreaming StreamState = "streaming"
	StateCompleted StreamState = "completed"
	StateFailed    StreamState = "failed"
	StateCancelled StreamState = "cancelled"
)

// Terminal reports whether no further fragments can be produced in this state.
func (s StreamState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}
