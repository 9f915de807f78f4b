// Package toolout implements C4, the ToolOutputCompressor: size-
// threshold externalization of oversized tool output into the artifact
// store, plus schema-aware inline shrinking for mid-size payloads.
// Grounded on internal/utils/text_utils.go's ContentAnalyzer (content
// classification over message text) and
// internal/agent/message/compressor.go's threshold-selected strategies.
package toolout

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentType is the closed set of tool-output shapes C4 detects.
type ContentType string

const (
	TypeJSON   ContentType = "json"
	TypeYAML   ContentType = "yaml"
	TypeError  ContentType = "error"
	TypeLog    ContentType = "log"
	TypeBinary ContentType = "binary"
	TypeText   ContentType = "text"
)

// DetectContentType runs the priority-ordered predicate list from
// spec.md §4.4 over the trimmed content.
func DetectContentType(content string) ContentType {
	trimmed := strings.TrimSpace(content)

	if looksLikeJSON(trimmed) {
		return TypeJSON
	}
	if looksLikeYAML(trimmed) {
		return TypeYAML
	}
	if containsAny(content, "ERROR:", "Exception", "Traceback") {
		return TypeError
	}
	if containsAny(content, "INFO ", "DEBUG ", "WARN ") {
		return TypeLog
	}
	if strings.HasPrefix(trimmed, "data:") || strings.Contains(content, "base64") {
		return TypeBinary
	}
	return TypeText
}

func looksLikeJSON(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return false
	}
	var v any
	return unmarshalJSON(trimmed, &v) == nil
}

// looksLikeYAML refines the spec's "contains --- and : or -" heuristic
// with a cheap trial-unmarshal, avoiding false positives on plain text
// that happens to contain a colon.
func looksLikeYAML(trimmed string) bool {
	hasMarker := strings.Contains(trimmed, "---")
	hasColonOrDash := strings.Contains(trimmed, ":") || strings.Contains(trimmed, "-")
	if !hasMarker || !hasColonOrDash {
		return false
	}
	var v any
	return yaml.Unmarshal([]byte(trimmed), &v) == nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
