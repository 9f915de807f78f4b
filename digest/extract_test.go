package digest

import (
	"strings"
	"testing"
)

func TestExtract_Categories(t *testing.T) {
	text := "User must provide a valid id: abc-123 before calling the tool. " +
		"The search tool was called and returned status: 404. " +
		"This failed because the resource was missing. " +
		"We decided to retry via https://example.com/api/retry. " +
		"The result succeeded after the retry."

	p := Extract(text)

	if len(p.Identifiers) == 0 || p.Identifiers[0] != "abc-123" {
		t.Errorf("identifiers = %v, want first = abc-123", p.Identifiers)
	}
	if len(p.Statuses) == 0 || p.Statuses[0] != "404" {
		t.Errorf("statuses = %v, want first = 404", p.Statuses)
	}
	if len(p.URLs) == 0 || !strings.Contains(p.URLs[0], "example.com") {
		t.Errorf("urls = %v, want one containing example.com", p.URLs)
	}
	if len(p.Constraints) == 0 {
		t.Errorf("expected at least one constraint match")
	}
	if len(p.Errors) == 0 {
		t.Errorf("expected at least one error match")
	}
	if len(p.Decisions) == 0 {
		t.Errorf("expected at least one decision match")
	}
	if len(p.Tools) == 0 {
		t.Errorf("expected at least one tool-usage match")
	}
	if len(p.Outcomes) == 0 {
		t.Errorf("expected at least one outcome match")
	}
}

func TestExtract_NoMatches(t *testing.T) {
	p := Extract("just some plain conversational text with nothing notable")
	if !p.Empty() {
		t.Fatalf("expected no extracted pieces, got %+v", p)
	}
	got := FormatDigest("StandaloneAssistant", p)
	want := "StandaloneAssistant: (no key info extracted)"
	if got != want {
		t.Errorf("FormatDigest = %q, want %q", got, want)
	}
}

func TestExtract_CapsPerCategory(t *testing.T) {
	text := "id: one id: two id: three id: four"
	p := Extract(text)
	if len(p.Identifiers) != 3 {
		t.Fatalf("expected identifier cap of 3, got %d: %v", len(p.Identifiers), p.Identifiers)
	}
}

func TestExtract_Deduplicates(t *testing.T) {
	text := "id: dup id: dup id: other"
	p := Extract(text)
	if len(p.Identifiers) != 2 {
		t.Fatalf("expected dedup down to 2 identifiers, got %v", p.Identifiers)
	}
}

func TestFormatDigest_FieldOrder(t *testing.T) {
	p := Pieces{
		Identifiers: []string{"a", "b"},
		Constraints: []string{"must do x."},
		Decisions:   []string{"chose y."},
		Errors:      []string{"failed z."},
		Statuses:    []string{"500"},
		Tools:       []string{"called search."},
		Outcomes:    []string{"result ok."},
		URLs:        []string{"https://a", "https://b"},
	}
	got := FormatDigest("UserAssistantPair", p)
	want := "UserAssistantPair: IDs[a,b] Rules[must do x.] Decision[chose y.] Error[failed z.] Status[500] Tools[1 used] Result[result ok.] URLs[2]"
	if got != want {
		t.Errorf("FormatDigest =\n%q\nwant\n%q", got, want)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "id: abc must comply. status: 200"
	a := Extract(text)
	b := Extract(text)
	if FormatDigest("X", a) != FormatDigest("X", b) {
		t.Errorf("extraction is not deterministic across repeated calls on identical input")
	}
}
