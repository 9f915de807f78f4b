// Package manager implements C8, ContextManager: the orchestrator that
// runs ToolDeterministicCompaction (C4) → HistoryCompression (C3) →
// LLMHistorySqueeze (C6) → FinalTokenTrim (C7) in strict order with
// early-exit, emitting per-step telemetry. Grounded on
// internal/context/manager.go's ContextManager and its
// NewContextManager-with-defaults idiom (spec.md §4.8).
package manager

import (
	"context"
	"log"

	"ctxcore/artifact"
	"ctxcore/history"
	"ctxcore/llm"
	"ctxcore/message"
	"ctxcore/squeeze"
	"ctxcore/tokencount"
	"ctxcore/toolout"
	"ctxcore/window"
)

// Config configures a ContextManager. NewConfig returns one populated
// with defaults; New uses the Config as given and does not fill in
// zero-value fields.
type Config struct {
	Budget   int
	Headroom float64

	ToolOutput toolout.Config
	History    history.Config
	Squeeze    squeeze.Config

	// EnableToolCompaction toggles step 1; it is on by default.
	EnableToolCompaction bool
}

// NewConfig returns a Config with spec.md-aligned defaults: an 8000
// token budget, 10% headroom, and every step enabled.
func NewConfig() Config {
	return Config{
		Budget:               8000,
		Headroom:             0.1,
		ToolOutput:           toolout.NewConfig(),
		History:              history.Config{CapTokens: 500, KeepLastK: 6},
		Squeeze:              squeeze.NewConfig(),
		EnableToolCompaction: true,
	}
}

// ContextManager orchestrates the four-stage pipeline. ArtifactStore
// and LLMClient are both capabilities; LLMClient may be nil, in which
// case step 3 is always skipped.
type ContextManager struct {
	counter       *tokencount.Counter
	artifactStore artifact.Store
	llmClient     llm.Client
	config        Config
}

// New constructs a ContextManager. artifactStore must not be nil;
// llmClient may be nil to disable step 3 entirely.
func New(counter *tokencount.Counter, artifactStore artifact.Store, llmClient llm.Client, cfg Config) *ContextManager {
	return &ContextManager{counter: counter, artifactStore: artifactStore, llmClient: llmClient, config: cfg}
}

// Step is the per-stage telemetry record emitted by Manage.
type Step struct {
	Name         string
	TokensBefore int
	TokensAfter  int
	Applied      bool
}

// Result is the output of a full Manage call.
type Result struct {
	Conversation   message.Conversation
	OriginalTokens int
	FinalTokens    int
	Steps          [4]Step
}

// Manage runs the full pipeline over conv against budget, per spec.md
// §4.8's strict ordering and early-exit rules.
func (m *ContextManager) Manage(ctx context.Context, conv message.Conversation) Result {
	originalTokens := m.counter.CountConversation(conv)
	current := conv

	step1 := m.runToolCompaction(current)
	current = step1.conv
	log.Printf("[CONTEXT] step=ToolDeterministicCompaction applied=%v tokens %d->%d",
		step1.step.Applied, step1.step.TokensBefore, step1.step.TokensAfter)

	step2 := m.runHistoryCompression(current)
	current = step2.conv
	log.Printf("[CONTEXT] step=HistoryCompression applied=%v tokens %d->%d",
		step2.step.Applied, step2.step.TokensBefore, step2.step.TokensAfter)

	step3 := m.runLLMSqueeze(ctx, current)
	current = step3.conv
	log.Printf("[CONTEXT] step=LLMHistorySqueeze applied=%v tokens %d->%d",
		step3.step.Applied, step3.step.TokensBefore, step3.step.TokensAfter)

	step4 := m.runFinalTrim(current)
	current = step4.conv
	log.Printf("[CONTEXT] step=FinalTokenTrim applied=%v tokens %d->%d",
		step4.step.Applied, step4.step.TokensBefore, step4.step.TokensAfter)

	return Result{
		Conversation:   current,
		OriginalTokens: originalTokens,
		FinalTokens:    m.counter.CountConversation(current),
		Steps:          [4]Step{step1.step, step2.step, step3.step, step4.step},
	}
}

type stepResult struct {
	conv message.Conversation
	step Step
}

// runToolCompaction always runs when enabled: C4 with the configured
// byte thresholds. No token cap is applied; the output is not checked
// against the input's token count and is kept even if it counts more.
func (m *ContextManager) runToolCompaction(conv message.Conversation) stepResult {
	before := m.counter.CountConversation(conv)
	if !m.config.EnableToolCompaction {
		return stepResult{conv, Step{"ToolDeterministicCompaction", before, before, false}}
	}

	compressed := toolout.Compress(m.artifactStore, conv.Messages(), m.config.ToolOutput)
	out := message.New(compressed...)
	after := m.counter.CountConversation(out)
	return stepResult{out, Step{"ToolDeterministicCompaction", before, after, structurallyDifferent(conv, out, before, after)}}
}

// runHistoryCompression runs only if the previous step's output still
// exceeds budget.
func (m *ContextManager) runHistoryCompression(conv message.Conversation) stepResult {
	before := m.counter.CountConversation(conv)
	if before <= m.config.Budget {
		return stepResult{conv, Step{"HistoryCompression", before, before, false}}
	}

	compressed := history.Compress(m.counter, conv.Messages(), m.config.History)
	out := message.New(compressed...)
	after := m.counter.CountConversation(out)
	return stepResult{out, Step{"HistoryCompression", before, after, structurallyDifferent(conv, out, before, after)}}
}

// runLLMSqueeze runs only if step 2's output still exceeds budget and
// an LLM client is configured; failures downgrade to a no-op rather
// than failing the pipeline (spec.md §4.8 step 3).
func (m *ContextManager) runLLMSqueeze(ctx context.Context, conv message.Conversation) stepResult {
	before := m.counter.CountConversation(conv)
	if before <= m.config.Budget || m.llmClient == nil {
		return stepResult{conv, Step{"LLMHistorySqueeze", before, before, false}}
	}

	out := squeeze.Squeeze(ctx, m.counter, m.llmClient, conv, m.config.Squeeze)
	after := m.counter.CountConversation(out)
	return stepResult{out, Step{"LLMHistorySqueeze", before, after, structurallyDifferent(conv, out, before, after)}}
}

// runFinalTrim always runs: C7 with the configured headroom.
func (m *ContextManager) runFinalTrim(conv message.Conversation) stepResult {
	before := m.counter.CountConversation(conv)
	if conv.IsEmpty() {
		return stepResult{conv, Step{"FinalTokenTrim", before, before, false}}
	}

	out, diag, err := window.Trim(m.counter, conv, window.Config{Budget: m.config.Budget, Headroom: m.config.Headroom})
	if err != nil {
		log.Printf("[CONTEXT] final trim validation error: %v", err)
		return stepResult{conv, Step{"FinalTokenTrim", before, before, false}}
	}
	return stepResult{out, Step{"FinalTokenTrim", before, diag.CurrentTokens, diag.WasTrimmed}}
}

// structurallyDifferent reports whether a step changed anything: either
// the token count moved, or the message count changed even at equal
// token count (spec.md §4.8's "applied" definition).
func structurallyDifferent(before, after message.Conversation, tokensBefore, tokensAfter int) bool {
	if tokensBefore != tokensAfter {
		return true
	}
	return before.Count() != after.Count()
}
