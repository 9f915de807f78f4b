package manager

import (
	"context"
	"strings"
	"testing"

	"ctxcore/artifact"
	"ctxcore/digest"
	"ctxcore/history"
	"ctxcore/message"
	"ctxcore/tokencount"
)

func newCounter(t *testing.T) *tokencount.Counter {
	t.Helper()
	c, err := tokencount.New(tokencount.TokenizerFunc(func(s string) []int {
		return make([]int, len(strings.Fields(s)))
	}))
	if err != nil {
		t.Fatalf("tokencount.New: %v", err)
	}
	return c
}

// E1 - no-op under budget.
func TestManage_NoopUnderBudget(t *testing.T) {
	counter := newCounter(t)
	store := artifact.NewMemoryStore()
	cfg := NewConfig()
	cfg.Budget = 1000
	cfg.Headroom = 0.1
	mgr := New(counter, store, nil, cfg)

	conv := message.New(message.NewUser("hi"), message.NewAssistant("hello"))
	result := mgr.Manage(context.Background(), conv)

	got := result.Conversation.Messages()
	want := conv.Messages()
	if len(got) != len(want) {
		t.Fatalf("expected conversation unchanged, got %d messages want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Content != want[i].Content {
			t.Errorf("message %d changed: got %q want %q", i, got[i].Content, want[i].Content)
		}
	}
	for _, s := range result.Steps[:3] {
		if s.Applied {
			t.Errorf("step %s: expected applied=false under budget", s.Name)
		}
	}
}

// E2 - trim with keep-recent.
func TestManage_TrimsWithHistorySummary(t *testing.T) {
	counter := newCounter(t)
	store := artifact.NewMemoryStore()
	cfg := NewConfig()
	cfg.Budget = 80
	cfg.Headroom = 0
	cfg.History = history.Config{CapTokens: 40, KeepLastK: 2}
	mgr := New(counter, store, nil, cfg)

	var msgs []message.Message
	for i := 0; i < 20; i++ {
		msgs = append(msgs, message.NewUser("please do the thing now"), message.NewAssistant("done with that request"))
	}
	conv := message.New(msgs...)

	result := mgr.Manage(context.Background(), conv)

	out := result.Conversation.Messages()
	if len(out) == 0 {
		t.Fatalf("expected a non-empty result")
	}
	if !digest.IsDigest(out[0].Content) {
		t.Fatalf("expected the result to begin with a history summary, got %+v", out[0])
	}
	if result.FinalTokens > cfg.Budget {
		t.Errorf("result exceeds the configured budget: %d tokens", result.FinalTokens)
	}
}

// E3 - externalization.
func TestManage_ExternalizesLargeToolOutput(t *testing.T) {
	counter := newCounter(t)
	store := artifact.NewMemoryStore()
	cfg := NewConfig()
	cfg.Budget = 100000
	mgr := New(counter, store, nil, cfg)

	big := strings.Repeat("A", 20000)
	conv := message.New(message.NewUser("fetch it"), message.NewAssistant("", message.ToolCall{ID: "1", Name: "fetch"}), message.NewTool("1", big))

	result := mgr.Manage(context.Background(), conv)

	out := result.Conversation.Messages()
	toolMsg := out[len(out)-1]
	if !strings.HasPrefix(toolMsg.Content, "[EXTERNALIZED: ") || !strings.Contains(toolMsg.Content, "TEXT") {
		t.Fatalf("expected externalized pointer, got %q", toolMsg.Content)
	}
	key := artifact.Key([]byte(big))
	stored, err := store.Retrieve(key)
	if err != nil || string(stored) != big {
		t.Errorf("expected original content retrievable, err=%v", err)
	}
}

// E5 - digest idempotence across repeated runs.
func TestManage_IdempotentAcrossRuns(t *testing.T) {
	counter := newCounter(t)
	store := artifact.NewMemoryStore()
	cfg := NewConfig()
	cfg.Budget = 80
	cfg.Headroom = 0
	mgr := New(counter, store, nil, cfg)

	var msgs []message.Message
	for i := 0; i < 20; i++ {
		msgs = append(msgs, message.NewUser("please do the thing now"), message.NewAssistant("done with that request"))
	}
	conv := message.New(msgs...)

	first := mgr.Manage(context.Background(), conv)
	second := mgr.Manage(context.Background(), first.Conversation)

	countDigests := func(c message.Conversation) int {
		n := 0
		for _, m := range c.Messages() {
			if digest.IsDigest(m.Content) {
				n++
			}
		}
		return n
	}
	if countDigests(first.Conversation) != countDigests(second.Conversation) {
		t.Errorf("expected stable digest count across repeated runs: first=%d second=%d",
			countDigests(first.Conversation), countDigests(second.Conversation))
	}
}
