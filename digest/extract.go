package digest

import (
	"fmt"
	"strings"
)

// maxPieceLen is the display length a single extracted piece is
// truncated to before joining, keeping a digest line compact even when
// a matched sentence runs long (spec.md §4.3 step 4: "truncated pieces
// use an ellipsis").
const maxPieceLen = 48

// Pieces holds the deduplicated, capped matches extracted from a block
// of text, one slice per category.
type Pieces struct {
	Identifiers []string
	URLs        []string
	Constraints []string
	Statuses    []string
	Errors      []string
	Decisions   []string
	Tools       []string
	Outcomes    []string
}

// Empty reports whether no category yielded any match.
func (p Pieces) Empty() bool {
	return len(p.Identifiers) == 0 && len(p.URLs) == 0 && len(p.Constraints) == 0 &&
		len(p.Statuses) == 0 && len(p.Errors) == 0 && len(p.Decisions) == 0 &&
		len(p.Tools) == 0 && len(p.Outcomes) == 0
}

// Extract runs the full catalogue over text and returns the capped,
// deduplicated, in-order pieces for every category.
func Extract(text string) Pieces {
	var p Pieces
	for _, pat := range catalogue {
		matches := matchAll(pat, text)
		switch pat.category {
		case CategoryIdentifier:
			p.Identifiers = matches
		case CategoryURL:
			p.URLs = matches
		case CategoryConstraint:
			p.Constraints = matches
		case CategoryStatus:
			p.Statuses = matches
		case CategoryError:
			p.Errors = matches
		case CategoryDecision:
			p.Decisions = matches
		case CategoryTool:
			p.Tools = matches
		case CategoryOutcome:
			p.Outcomes = matches
		}
	}
	return p
}

// matchAll walks every match of pat.re over text in order, pulling the
// configured group, deduplicating repeats, and stopping once pat.cap
// pieces have been kept.
func matchAll(pat pattern, text string) []string {
	var out []string
	seen := make(map[string]bool)

	m, err := pat.re.FindStringMatch(text)
	for err == nil && m != nil && len(out) < pat.cap {
		var value string
		if pat.group == 0 {
			value = m.String()
		} else if g := m.GroupByNumber(pat.group); g != nil && g.Length > 0 {
			value = g.String()
		}
		value = strings.TrimSpace(value)
		if value != "" && !seen[value] {
			seen[value] = true
			out = append(out, truncate(value))
		}
		m, err = pat.re.FindNextMatch(m)
	}
	return out
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxPieceLen {
		return s
	}
	return s[:maxPieceLen] + "…"
}

// FormatDigest renders one structured summary line for a block, in the
// fixed field order from spec.md §4.3 step 4. A field is omitted
// entirely when its category produced no matches; if every category is
// empty the line ends with "(no key info extracted)".
func FormatDigest(blockLabel string, p Pieces) string {
	var fields []string

	if len(p.Identifiers) > 0 {
		fields = append(fields, fmt.Sprintf("IDs[%s]", strings.Join(p.Identifiers, ",")))
	}
	if len(p.Constraints) > 0 {
		fields = append(fields, fmt.Sprintf("Rules[%s]", strings.Join(p.Constraints, "; ")))
	}
	if len(p.Decisions) > 0 {
		fields = append(fields, fmt.Sprintf("Decision[%s]", strings.Join(p.Decisions, "; ")))
	}
	if len(p.Errors) > 0 {
		fields = append(fields, fmt.Sprintf("Error[%s]", strings.Join(p.Errors, "; ")))
	}
	if len(p.Statuses) > 0 {
		fields = append(fields, fmt.Sprintf("Status[%s]", strings.Join(p.Statuses, ",")))
	}
	if len(p.Tools) > 0 {
		fields = append(fields, fmt.Sprintf("Tools[%d used]", len(p.Tools)))
	}
	if len(p.Outcomes) > 0 {
		fields = append(fields, fmt.Sprintf("Result[%s]", strings.Join(p.Outcomes, "; ")))
	}
	if len(p.URLs) > 0 {
		fields = append(fields, fmt.Sprintf("URLs[%d]", len(p.URLs)))
	}

	if len(fields) == 0 {
		return blockLabel + ": (no key info extracted)"
	}
	return blockLabel + ": " + strings.Join(fields, " ")
}
