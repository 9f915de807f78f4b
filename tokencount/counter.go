package tokencount

import "ctxcore/message"

// CountMessage returns content tokens + per-message overhead (4) +
// per-tool-call (name + args + 10) for assistants + tool_call_id
// tokens for tool messages, per spec.md §4.1.
func (c *Counter) CountMessage(m message.Message) int {
	total := c.encodeLen(m.Content) + perMessageOverhead

	if m.Role == message.Assistant {
		for _, tc := range m.ToolCalls {
			total += c.encodeLen(tc.Name) + c.encodeLen(tc.ArgumentsJSON) + perToolCallOverhead
		}
	}

	if m.Role == message.Tool {
		total += c.encodeLen(m.ToolCallID)
	}

	return total
}

// CountConversation returns the sum of CountMessage over every message
// plus the fixed conversation overhead (10), per spec.md §4.1.
func (c *Counter) CountConversation(conv message.Conversation) int {
	total := ConversationOverhead
	for _, m := range conv.Messages() {
		total += c.CountMessage(m)
	}
	return total
}

// CountMessages is a convenience for summing CountMessage over a raw
// message slice, used by stages that work with slices rather than a
// full Conversation value mid-pipeline.
func (c *Counter) CountMessages(msgs []message.Message) int {
	total := 0
	for _, m := range msgs {
		total += c.CountMessage(m)
	}
	return total
}
