// Package chat provides the append-only transcript container for a run.
package chat

import (
	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
)

// Chat is an append-only conversation transcript. The zero value is ready to
// use. Chat is not safe for concurrent use; the orchestrator is its only
// writer and hands out copies via Messages.
type Chat struct {
	messages []message.Message
}

// New creates a Chat pre-populated with the given messages.
func New(msgs ...message.Message) *Chat {
	return &Chat{messages: msgs}
}

// Append adds one or more messages to the conversation.
func (c *Chat) Append(msgs ...message.Message) {
	c.messages = append(c.messages, msgs...)
}

// LastByRole returns the most recent message with the given role.
func (c *Chat) LastByRole(r role.Role) (message.Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == r {
			return c.messages[i], true
		}
	}
	return message.Message{}, false
}

// Messages returns a copy of all messages in the conversation.
func (c *Chat) Messages() []message.Message {
	cp := make([]message.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}
