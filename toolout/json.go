package toolout

import (
	"encoding/json"
	"strconv"

	"github.com/kaptinlin/jsonrepair"
)

// unmarshalJSON parses text into v, first trying a strict decode and
// falling back to jsonrepair for content that is almost-but-not-quite
// valid JSON (truncated tool output commonly is). A failure here is
// SchemaCompressionFailed (spec.md §7): not a user-visible error, just
// a signal for the caller to fall back to generic text compression.
func unmarshalJSON(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(repaired), v)
}

// pruneJSON implements spec.md §4.4's json inline-compression rules:
// drop null/empty-string/empty-array fields recursively, truncate long
// arrays to first 10 + marker + last 10, and round whole-number values
// over 1000.
func pruneJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			pruned := pruneJSON(val)
			if isEmptyValue(pruned) {
				continue
			}
			out[k] = pruned
		}
		return out
	case []any:
		pruned := make([]any, len(t))
		for i, val := range t {
			pruned[i] = pruneJSON(val)
		}
		return truncateArray(pruned)
	case float64:
		return roundIfLarge(t)
	default:
		return v
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func truncateArray(arr []any) []any {
	const maxLen = 20
	if len(arr) <= maxLen {
		return arr
	}
	kept := len(arr) - 20
	out := make([]any, 0, 21)
	out = append(out, arr[:10]...)
	out = append(out, "...[+"+strconv.Itoa(kept)+" items]...")
	out = append(out, arr[len(arr)-10:]...)
	return out
}

func roundIfLarge(n float64) float64 {
	const threshold = 1000
	if n <= threshold && n >= -threshold {
		return n
	}
	whole := float64(int64(n))
	if whole != n {
		return n // not a whole number, leave untouched
	}
	return whole
}
