// Package window implements C7, TokenWindow: the final trim that packs
// a conversation into a token budget, pinning a leading
// [HISTORY_SUMMARY] digest and otherwise keeping the newest messages
// that fit. Grounded heavily on the core-window.go reference's
// PruneMessages: always pin the anchor message, walk from the end, and
// reverse to restore chronological order (spec.md §4.7).
package window

import (
	"ctxcore/ctxerr"
	"ctxcore/digest"
	"ctxcore/message"
	"ctxcore/tokencount"
)

// Config configures a trim call.
type Config struct {
	// Budget is the nominal token budget; must be > 0.
	Budget int
	// Headroom reserves a fraction of Budget, in [0, 1).
	Headroom float64
}

// Diagnostics reports what a Trim call did.
type Diagnostics struct {
	CurrentTokens     int
	Budget            int
	WithinBudget      bool
	UtilizationPercent float64
	WasTrimmed        bool
	RemovedCount      int
}

// Trim runs C7 over conv. It returns a validation error if cfg.Budget
// is non-positive, cfg.Headroom is out of [0, 1), or conv is empty
// (spec.md §4.7 preconditions).
func Trim(counter *tokencount.Counter, conv message.Conversation, cfg Config) (message.Conversation, Diagnostics, error) {
	if cfg.Budget <= 0 {
		return message.Conversation{}, Diagnostics{}, &ctxerr.ValidationError{
			Component: "window", Message: "budget must be positive",
			Context: map[string]any{"budget": cfg.Budget},
		}
	}
	if cfg.Headroom < 0 || cfg.Headroom >= 1.0 {
		return message.Conversation{}, Diagnostics{}, &ctxerr.ValidationError{
			Component: "window", Message: "headroom must be in [0, 1)",
			Context: map[string]any{"headroom": cfg.Headroom},
		}
	}
	if conv.IsEmpty() {
		return message.Conversation{}, Diagnostics{}, &ctxerr.ValidationError{
			Component: "window", Message: "conversation must be non-empty",
		}
	}

	effective := int(float64(cfg.Budget) * (1 - cfg.Headroom))

	current := counter.CountConversation(conv)
	if current <= effective {
		return conv, Diagnostics{
			CurrentTokens: current, Budget: cfg.Budget, WithinBudget: current <= cfg.Budget,
			UtilizationPercent: percent(current, cfg.Budget), WasTrimmed: false,
		}, nil
	}

	msgs := conv.Messages()
	var pinned *message.Message
	rest := msgs
	// Reserve the fixed conversation overhead up front: CountConversation
	// adds it on top of every kept message's tokens, so packing must
	// budget against effective-minus-overhead for the final count to
	// actually satisfy <= effective (spec.md §8 property 2).
	remaining := effective - tokencount.ConversationOverhead
	if remaining < 0 {
		remaining = 0
	}
	if digest.IsDigest(msgs[0].Content) {
		pinned = &msgs[0]
		pinnedTokens := counter.CountMessage(*pinned)
		remaining -= pinnedTokens
		if remaining < 0 {
			remaining = 0
		}
		rest = msgs[1:]
	}

	kept := packNewestFirst(counter, rest, remaining)

	out := make([]message.Message, 0, len(kept)+1)
	if pinned != nil {
		out = append(out, *pinned)
	}
	out = append(out, kept...)

	final := message.New(out...)
	finalTokens := counter.CountConversation(final)
	removed := len(msgs) - len(out)

	return final, Diagnostics{
		CurrentTokens: finalTokens, Budget: cfg.Budget,
		WithinBudget:       finalTokens <= cfg.Budget,
		UtilizationPercent: percent(finalTokens, cfg.Budget),
		WasTrimmed:         true,
		RemovedCount:       removed,
	}, nil
}

// packNewestFirst walks rest from the end, greedily including each
// message whose addition keeps the running total within budget, then
// reverses back to chronological order (spec.md §4.7 step 4).
func packNewestFirst(counter *tokencount.Counter, rest []message.Message, budget int) []message.Message {
	var kept []message.Message
	total := 0
	for i := len(rest) - 1; i >= 0; i-- {
		cost := counter.CountMessage(rest[i])
		if total+cost > budget {
			break
		}
		total += cost
		kept = append(kept, rest[i])
	}
	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	return kept
}

func percent(current, budget int) float64 {
	if budget == 0 {
		return 0
	}
	return float64(current) / float64(budget) * 100
}
