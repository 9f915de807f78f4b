// Package squeeze implements C6, the optional LLM-assisted digest
// squeeze: it only ever touches messages already carrying the
// [HISTORY_SUMMARY] marker, asking the model to compress them further
// when they are still over budget. Grounded on
// internal/context/summarizer.go's MessageSummarizer: build a fixed
// system-style prompt, call the LLM client, and on any failure fall
// back rather than propagate (spec.md §4.6, §7).
package squeeze

import (
	"context"
	"fmt"
	"log"

	"ctxcore/ctxerr"
	"ctxcore/digest"
	"ctxcore/llm"
	"ctxcore/message"
	"ctxcore/tokencount"
)

// Config configures the squeeze step.
type Config struct {
	// CapTokens is the target size each squeezed digest should fit,
	// expressed as a rough token count; the prompt asks the model to
	// aim for it but does not enforce it (C7 enforces the hard cap
	// afterward).
	CapTokens int
	Options   llm.Options
}

// NewConfig returns Config with spec.md §4.6's defaults.
func NewConfig() Config {
	return Config{CapTokens: 200}
}

const promptTemplate = "Compress the following conversation summary to at most %d tokens. " +
	"Preserve identifiers, URLs, constraints, decisions, and outcomes. " +
	"Respond with only the compressed summary text, no preamble.\n\n%s"

// Squeeze runs the optional digest-squeeze step over conv, per spec.md
// §4.6's full contract: squeeze_digest(messages, token_counter,
// llm_client, cap_tokens). Only messages with the [HISTORY_SUMMARY]
// marker are candidates; every other message passes through unchanged.
// If there are no candidates, or their combined token count is already
// ≤ cfg.CapTokens, conv is returned unchanged without calling the LLM.
// Otherwise Squeeze is all-or-nothing: if any candidate's LLM call
// fails, the whole step is skipped and the original conversation is
// returned unchanged, never a partially-squeezed mix.
func Squeeze(ctx context.Context, counter *tokencount.Counter, client llm.Client, conv message.Conversation, cfg Config) message.Conversation {
	msgs := conv.Messages()
	var candidates []message.Message
	for _, m := range msgs {
		if digest.IsDigest(m.Content) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 || client == nil {
		return conv
	}
	if counter.CountMessages(candidates) <= cfg.CapTokens {
		return conv
	}

	out := make([]message.Message, len(msgs))
	for i, m := range msgs {
		if !digest.IsDigest(m.Content) {
			out[i] = m
			continue
		}
		body := digest.StripHeader(m.Content)
		prompt := fmt.Sprintf(promptTemplate, cfg.CapTokens, body)
		squeezed, err := client.Complete(ctx, prompt, cfg.Options)
		if err != nil {
			log.Printf("[SQUEEZE] llm compression failed, skipping step: %v",
				&ctxerr.LLMCompressionFailedError{Component: "squeeze", Cause: err})
			return conv
		}
		out[i] = restoreKind(m, digest.Wrap(squeezed))
	}
	log.Printf("[SQUEEZE] squeezed %d digest message(s)", len(candidates))
	return message.New(out...)
}

// restoreKind rebuilds m with new content but the same message kind
// (and, for Assistant/Tool, the same tool-call binding), per spec.md
// §4.6: "restored to its original message kind".
func restoreKind(m message.Message, content string) message.Message {
	switch m.Role {
	case message.User:
		return message.NewUser(content)
	case message.Assistant:
		return message.NewAssistant(content, m.ToolCalls...)
	case message.Tool:
		return message.NewTool(m.ToolCallID, content)
	default:
		return message.NewSystem(content)
	}
}
