package blocks

import "ctxcore/message"

// Group partitions an ordered message list into SemanticBlocks via a
// single left-to-right pass, per the transition table in spec.md
// §4.2. The concatenation of the returned blocks' messages equals
// messages exactly (spec.md §8 property 6); System messages are
// treated identically to Assistant messages for every transition, as
// the table specifies.
func Group(messages []message.Message) []*Block {
	var finished []*Block
	var current *Block

	flush := func() {
		if current != nil {
			finished = append(finished, current)
			current = nil
		}
	}

	for _, m := range messages {
		effectiveRole := m.Role
		if effectiveRole == message.System {
			effectiveRole = message.Assistant
		}

		switch {
		case current == nil:
			switch effectiveRole {
			case message.User:
				current = newBlock(UserAssistantPair, true, m)
			case message.Assistant:
				current = newBlock(StandaloneAssistant, false, m)
			case message.Tool:
				current = newBlock(StandaloneTool, false, m)
			}

		case current.ExpectingAssistant:
			switch effectiveRole {
			case message.User:
				flush()
				current = newBlock(UserAssistantPair, true, m)
			case message.Assistant:
				current.Messages = append(current.Messages, m)
				current.ExpectingAssistant = false
				flush()
			case message.Tool:
				current.Messages = append(current.Messages, m)
			}

		default: // block not expecting an assistant reply
			switch effectiveRole {
			case message.User:
				flush()
				current = newBlock(UserAssistantPair, true, m)
			case message.Assistant:
				flush()
				current = newBlock(StandaloneAssistant, false, m)
			case message.Tool:
				current.Messages = append(current.Messages, m)
			}
		}
	}

	flush()
	return finished
}

// Flatten concatenates the messages of a block slice back into a
// single ordered list, the inverse of Group and the basis for the
// partition invariant (spec.md §8 property 6).
func Flatten(bs []*Block) []message.Message {
	var out []message.Message
	for _, b := range bs {
		out = append(out, b.Messages...)
	}
	return out
}
