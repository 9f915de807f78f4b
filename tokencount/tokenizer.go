// Package tokencount implements C1 (TokenCounter): deterministic token
// accounting for messages and conversations, delegated to an injected
// tokenizer. See spec.md §4.1 and §6 for the exact contract.
package tokencount

import (
	"strings"

	"ctxcore/ctxerr"
)

// Tokenizer reports how many tokens a string encodes to. Only the
// length of the returned slice is consumed by TokenCounter; the token
// IDs themselves are never inspected, matching spec.md §6's tokenizer
// contract.
type Tokenizer interface {
	Encode(text string) []int
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) []int

func (f TokenizerFunc) Encode(text string) []int { return f(text) }

// Family identifies which approximate tokenizer a model name maps to,
// per spec.md §6's selection table.
type Family string

const (
	FamilyGPT4o     Family = "gpt-4o"
	FamilyGPT4Class Family = "gpt-3.5-4"
	FamilyApprox    Family = "approx"
	FamilyFallback  Family = "fallback"
)

// FamilyForModel maps a model name to the tokenizer family spec.md §6
// says to use for it. Unknown names map to FamilyFallback, with any
// warning left to the caller (this function is pure and does not log).
func FamilyForModel(modelName string) Family {
	lower := strings.ToLower(modelName)
	switch {
	case strings.Contains(lower, "gpt-4o"), strings.Contains(lower, "o1-"):
		return FamilyGPT4o
	case strings.Contains(lower, "gpt-4"), strings.Contains(lower, "gpt-3.5"):
		return FamilyGPT4Class
	case strings.Contains(lower, "claude"), strings.Contains(lower, "anthropic"), strings.Contains(lower, "ollama"):
		return FamilyApprox
	default:
		return FamilyFallback
	}
}

// Fixed per-spec overhead constants (spec.md §4.1). These are a
// contract, not a tuning knob: an implementation must reproduce them
// exactly so that budgets computed upstream of this package still
// match.
const (
	perMessageOverhead  = 4
	perToolCallOverhead = 10

	// ConversationOverhead is exported so callers that must reserve
	// its weight ahead of time (e.g. window.Trim packing against an
	// effective budget) can do so without duplicating the constant.
	ConversationOverhead = 10
)

// Counter reports token counts for messages and conversations per
// spec.md §4.1. It is pure and deterministic given its tokenizer.
type Counter struct {
	tokenizer Tokenizer
}

// New constructs a Counter. It returns TokenizerUnavailableError if
// tokenizer is nil, matching spec.md §7: the counter cannot be
// constructed without one, and this is a construction-time error, not
// a per-call one.
func New(tokenizer Tokenizer) (*Counter, error) {
	if tokenizer == nil {
		return nil, &ctxerr.TokenizerUnavailableError{Reason: "no tokenizer provided"}
	}
	return &Counter{tokenizer: tokenizer}, nil
}

func (c *Counter) encodeLen(text string) int {
	if text == "" {
		return 0
	}
	return len(c.tokenizer.Encode(text))
}
