package toolout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// compressInline dispatches to the type-specific rule set from
// spec.md §4.4. It never externalizes; callers decide that by size
// before reaching here.
func compressInline(content string, ct ContentType) string {
	switch ct {
	case TypeJSON:
		return compressJSON(content)
	case TypeYAML:
		return compressText(content) // yaml has no dedicated rule; treated as structured text
	case TypeLog:
		return compressLog(content)
	case TypeError:
		return compressError(content)
	case TypeBinary:
		return binaryPlaceholder(content, "")
	default:
		return compressText(content)
	}
}

func compressJSON(content string) string {
	var v any
	if err := unmarshalJSON(content, &v); err != nil {
		return compressText(content)
	}
	pruned := pruneJSON(v)
	out, err := json.Marshal(pruned)
	if err != nil {
		return compressText(content)
	}
	return string(out)
}

func compressLog(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 120 {
		kept := len(lines) - 120
		marker := fmt.Sprintf("... [collapsed %d repeated/verbose log lines] ...", kept)
		merged := make([]string, 0, 121)
		merged = append(merged, lines[:80]...)
		merged = append(merged, marker)
		merged = append(merged, lines[len(lines)-40:]...)
		lines = merged
	}
	return strings.Join(collapseDuplicates(lines), "\n")
}

// collapseDuplicates folds consecutive identical lines into "<line> ×K".
func collapseDuplicates(lines []string) []string {
	var out []string
	i := 0
	for i < len(lines) {
		j := i + 1
		for j < len(lines) && lines[j] == lines[i] {
			j++
		}
		count := j - i
		if count > 1 {
			out = append(out, fmt.Sprintf("%s ×%d", lines[i], count))
		} else {
			out = append(out, lines[i])
		}
		i = j
	}
	return out
}

func compressError(content string) string {
	lines := strings.Split(content, "\n")
	headerLen := 3
	if headerLen > len(lines) {
		headerLen = len(lines)
	}
	header := lines[:headerLen]
	rest := lines[headerLen:]

	var frames []string
	for _, l := range rest {
		if isStackFrame(l) {
			frames = append(frames, l)
		}
	}

	const maxFrames = 10
	extra := 0
	if len(frames) > maxFrames {
		extra = len(frames) - maxFrames
		frames = frames[:maxFrames]
	}

	out := append([]string{}, header...)
	out = append(out, frames...)
	if extra > 0 {
		out = append(out, fmt.Sprintf("... [+%d additional stack frames] ...", extra))
	}
	return strings.Join(out, "\n")
}

func isStackFrame(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "at ") {
		return true
	}
	for _, marker := range []string{".java:", ".scala:", ".go:", ".py:", ".js:", ".rb:"} {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func binaryPlaceholder(content, toolCallID string) string {
	return fmt.Sprintf("[BINARY CONTENT: %d bytes, tool_call_id=%s]", len(content), toolCallID)
}

func compressText(content string) string {
	if len(content) <= 1000 {
		return content
	}
	words := strings.Fields(content)
	if len(words) <= 70 {
		return content
	}
	first := words[:50]
	last := words[len(words)-20:]
	kept := len(words) - 70
	return strings.Join(first, " ") + fmt.Sprintf(" ... [+%d words] ... ", kept) + strings.Join(last, " ")
}
