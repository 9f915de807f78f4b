// Package digest implements the regex-based structured extraction that
// turns a block of messages into a compact, deterministic summary line,
// plus the shared [HISTORY_SUMMARY] marker conventions used by C3
// (history) and C6 (squeeze). See spec.md §4.3 and §6.
package digest

import "strings"

// Marker is the exact literal every history-summary message begins
// with, followed by a newline. It is load-bearing: C3 uses it for
// idempotence, C6 uses it for selection, C7 uses it for pinning
// (spec.md §6).
const Marker = "[HISTORY_SUMMARY]"

// Header is Marker plus the newline every digest message is wrapped
// with (spec.md §4.3 step 5).
const Header = Marker + "\n"

// IsDigest reports whether content begins with the digest marker.
func IsDigest(content string) bool {
	return strings.HasPrefix(content, Marker)
}

// Wrap prefixes body with the digest header.
func Wrap(body string) string {
	return Header + body
}

// StripHeader removes the leading "[HISTORY_SUMMARY]\n" from content,
// for callers (C6) that need the bare digest body. If content does not
// carry the header it is returned unchanged.
func StripHeader(content string) string {
	if !IsDigest(content) {
		return content
	}
	return strings.TrimPrefix(strings.TrimPrefix(content, Marker), "\n")
}
