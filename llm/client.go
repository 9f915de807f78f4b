// Package llm defines the minimal external client contract the
// pipeline needs for C6's optional digest squeeze: a single blocking
// completion call. Trimmed from internal/llm/types.go's much larger
// Client interface (Chat/ChatStream/Close, full ChatRequest/
// ChatResponse/Usage/ModelType surface) down to a single call that
// takes one prompt string and options and returns the completion text.
// It does not take a conversation or separate system and user
// messages.
package llm

import "context"

// Options configures a single completion call.
type Options struct {
	// Model names the target model; empty lets the client pick its
	// default.
	Model string
	// MaxTokens caps the completion length the client requests.
	MaxTokens int
	// Temperature controls sampling; 0 is a valid, deterministic value.
	Temperature float64
}

// Client is the contract squeeze.Squeeze depends on. Production
// callers adapt their own SDK client (e.g. the teacher's
// internal/llm.Client) to this interface; tests use a stub.
type Client interface {
	// Complete sends prompt, a single string, and returns the
	// completion text. A non-nil error means the call failed outright;
	// callers treat that as fatal to the squeeze step, never to the
	// pipeline as a whole (spec.md §4.6).
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}
