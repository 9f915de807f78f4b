package window

import (
	"strings"
	"testing"

	"ctxcore/digest"
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

func TestTrim_ValidationErrors(t *testing.T) {
	counter := newCounter(t)
	conv := message.New(message.NewUser("hi"))

	if _, _, err := Trim(counter, conv, Config{Budget: 0, Headroom: 0}); err == nil {
		t.Errorf("expected validation error for non-positive budget")
	}
	if _, _, err := Trim(counter, conv, Config{Budget: 10, Headroom: 1.0}); err == nil {
		t.Errorf("expected validation error for headroom >= 1")
	}
	if _, _, err := Trim(counter, message.Conversation{}, Config{Budget: 10, Headroom: 0}); err == nil {
		t.Errorf("expected validation error for empty conversation")
	}
}

func TestTrim_UnderBudgetIsNoop(t *testing.T) {
	counter := newCounter(t)
	conv := message.New(message.NewUser("hi"), message.NewAssistant("hello"))

	out, diag, err := Trim(counter, conv, Config{Budget: 1000, Headroom: 0})
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if diag.WasTrimmed {
		t.Errorf("expected was_trimmed=false when already under budget")
	}
	if out.Count() != conv.Count() {
		t.Errorf("expected conversation unchanged")
	}
}

func TestTrim_KeepsNewestMessages(t *testing.T) {
	counter := newCounter(t)
	var msgs []message.Message
	for i := 0; i < 20; i++ {
		msgs = append(msgs, message.NewUser("word word word word word"))
	}
	conv := message.New(msgs...)

	out, diag, err := Trim(counter, conv, Config{Budget: 60, Headroom: 0})
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if !diag.WasTrimmed {
		t.Fatalf("expected trimming to occur")
	}
	if out.Count() == 0 || out.Count() >= conv.Count() {
		t.Fatalf("expected a strict subset of messages kept, got %d of %d", out.Count(), conv.Count())
	}
	last := out.At(out.Count() - 1)
	if last.Content != msgs[len(msgs)-1].Content {
		t.Errorf("expected the most recent message to survive trimming")
	}
}

func TestTrim_PinsLeadingDigest(t *testing.T) {
	counter := newCounter(t)
	msgs := []message.Message{message.NewSystem(digest.Wrap("summary"))}
	for i := 0; i < 20; i++ {
		msgs = append(msgs, message.NewUser("word word word word word"))
	}
	conv := message.New(msgs...)

	out, _, err := Trim(counter, conv, Config{Budget: 60, Headroom: 0})
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if !digest.IsDigest(out.At(0).Content) {
		t.Fatalf("expected the pinned digest to remain first, got %+v", out.At(0))
	}
}

func TestTrim_OrderPreserved(t *testing.T) {
	counter := newCounter(t)
	msgs := []message.Message{
		message.NewUser("one word"),
		message.NewUser("two word"),
		message.NewUser("three word"),
		message.NewUser("four word"),
	}
	conv := message.New(msgs...)

	out, _, err := Trim(counter, conv, Config{Budget: 20, Headroom: 0})
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	prevIdx := -1
	for _, m := range out.Messages() {
		for i, orig := range msgs {
			if orig.Content == m.Content {
				if i <= prevIdx {
					t.Fatalf("order not preserved: %q appeared out of order", m.Content)
				}
				prevIdx = i
			}
		}
	}
}
