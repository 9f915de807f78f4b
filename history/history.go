// Package history implements C3, the HistoryCompressor: it replaces
// older semantic blocks with bounded, deterministic [HISTORY_SUMMARY]
// digests while leaving the most recent blocks verbatim. Grounded on
// internal/context/processor.go's analyze→categorize→compress pipeline
// shape (spec.md §4.3).
package history

import (
	"fmt"
	"strings"

	"ctxcore/blocks"
	"ctxcore/digest"
	"ctxcore/message"
	"ctxcore/tokencount"
)

// Config configures a single compression call.
type Config struct {
	// CapTokens is the token budget the emitted digest messages must
	// fit within before the consolidation fallback kicks in.
	CapTokens int
	// KeepLastK is the number of most-recent blocks left untouched.
	KeepLastK int
}

// Compress runs C3 over msgs. If any message already carries the
// [HISTORY_SUMMARY] marker, msgs is returned unchanged (idempotence
// guard, spec.md §4.3 step 1).
func Compress(counter *tokencount.Counter, msgs []message.Message, cfg Config) []message.Message {
	for _, m := range msgs {
		if digest.IsDigest(m.Content) {
			return msgs
		}
	}

	bs := blocks.Group(msgs)

	keepLastK := cfg.KeepLastK
	if keepLastK < 0 {
		keepLastK = 0
	}
	splitAt := len(bs) - keepLastK
	if splitAt < 0 {
		splitAt = 0
	}
	older, recent := bs[:splitAt], bs[splitAt:]

	if len(older) == 0 {
		return blocks.Flatten(recent)
	}

	digestMsgs := make([]message.Message, 0, len(older))
	labels := make([]string, 0, len(older))
	for _, b := range older {
		line := digestLine(b)
		digestMsgs = append(digestMsgs, message.NewSystem(digest.Wrap(line)))
		labels = append(labels, line)
	}

	if counter.CountMessages(digestMsgs) <= cfg.CapTokens {
		out := append(digestMsgs, blocks.Flatten(recent)...)
		return out
	}

	consolidated := consolidate(labels, cfg.CapTokens)
	out := append([]message.Message{message.NewSystem(digest.Wrap(consolidated))}, blocks.Flatten(recent)...)
	return out
}

// digestLine renders one block's digest body (without the
// [HISTORY_SUMMARY] header, added by the caller).
func digestLine(b *blocks.Block) string {
	var text strings.Builder
	for _, m := range b.Messages {
		text.WriteString(m.Content)
		text.WriteString(" ")
	}
	pieces := digest.Extract(text.String())
	return digest.FormatDigest(string(b.Type), pieces)
}

// consolidate joins every older block's digest line into one block,
// then char-truncates to capTokens*4 characters plus an ellipsis — a
// deliberate rough bound that avoids re-tokenization (spec.md §4.3
// step 7).
func consolidate(labels []string, capTokens int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("Block%d: %s", i+1, l)
	}
	joined := strings.Join(parts, "; ")

	limit := capTokens * 4
	if limit <= 0 || len(joined) <= limit {
		return joined
	}
	return joined[:limit] + "…"
}
