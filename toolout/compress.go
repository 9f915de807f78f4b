package toolout

import (
	"fmt"
	"log"
	"strings"

	"ctxcore/artifact"
	"ctxcore/ctxerr"
	"ctxcore/message"
)

// Config configures the per-message size thresholds from spec.md
// §4.4.
type Config struct {
	// ThresholdBytes is the size above which a tool message is
	// externalized rather than inline-compressed.
	ThresholdBytes int
	// InlineFloorBytes is the size below which a tool message is left
	// unchanged.
	InlineFloorBytes int
}

// NewConfig returns Config with spec.md's defaults: 8 KiB
// externalization threshold, 2 KiB inline-compression floor.
func NewConfig() Config {
	return Config{ThresholdBytes: 8 * 1024, InlineFloorBytes: 2 * 1024}
}

// Compress applies C4 to msgs. Only Tool messages are touched; every
// other message passes through as the identical value (spec.md §8
// property 7, tool-only mutation).
func Compress(store artifact.Store, msgs []message.Message, cfg Config) []message.Message {
	out := make([]message.Message, len(msgs))
	for i, m := range msgs {
		if m.Role != message.Tool {
			out[i] = m
			continue
		}
		out[i] = compressOne(store, m, cfg)
	}
	return out
}

func compressOne(store artifact.Store, m message.Message, cfg Config) message.Message {
	size := len(m.Content)
	ct := DetectContentType(m.Content)

	switch {
	case size > cfg.ThresholdBytes:
		return externalize(store, m, ct)
	case size > cfg.InlineFloorBytes:
		return message.NewTool(m.ToolCallID, compressInline(m.Content, ct))
	default:
		return m
	}
}

func externalize(store artifact.Store, m message.Message, ct ContentType) message.Message {
	content := []byte(m.Content)
	key, err := store.Store(content)
	if err != nil {
		log.Printf("[TOOLOUT] %v; falling back to inline compression",
			&ctxerr.ArtifactStoreFailedError{Op: "store", Key: "", Cause: err})
		return message.NewTool(m.ToolCallID, compressInline(m.Content, ct))
	}
	summary := summarize(m.Content, ct)
	pointer := fmt.Sprintf("[EXTERNALIZED: %s | %s | %s]", key, strings.ToUpper(string(ct)), summary)
	return message.NewTool(m.ToolCallID, pointer)
}

func summarize(content string, ct ContentType) string {
	switch ct {
	case TypeJSON:
		return fmt.Sprintf("%d bytes, json payload", len(content))
	case TypeYAML:
		return fmt.Sprintf("%d bytes, yaml payload", len(content))
	case TypeLog:
		return fmt.Sprintf("%d bytes, %d lines", len(content), strings.Count(content, "\n")+1)
	case TypeError:
		return fmt.Sprintf("%d bytes, error output", len(content))
	case TypeBinary:
		return fmt.Sprintf("%d bytes, binary content", len(content))
	default:
		return fmt.Sprintf("%d bytes, text", len(content))
	}
}
