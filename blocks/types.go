// Package blocks implements C2 (SemanticBlocks): grouping an ordered
// message list into logical turn blocks via the single left-to-right
// state machine described in spec.md §4.2.
package blocks

import (
	"github.com/google/uuid"

	"ctxcore/message"
)

// Type is the closed set of semantic block shapes.
type Type string

const (
	UserAssistantPair  Type = "user_assistant_pair"
	StandaloneAssistant Type = "standalone_assistant"
	StandaloneTool     Type = "standalone_tool"
	Other              Type = "other"
)

// Block is a contiguous, ordered group of messages forming one logical
// turn. ID is opaque and random: two runs over identical input produce
// blocks with different IDs but identical (Type, Messages) pairs, so
// tests must compare on that pair rather than ID (spec.md §4.2).
type Block struct {
	ID                 string
	Type               Type
	Messages           []message.Message
	ExpectingAssistant bool
}

func newBlock(t Type, expecting bool, first message.Message) *Block {
	return &Block{
		ID:                 uuid.NewString(),
		Type:               t,
		Messages:           []message.Message{first},
		ExpectingAssistant: expecting,
	}
}
