package agent

import (
	"strings"
	"unicode"

	"github.com/germanamz/pairloop/pkg/chats/message"
)

// DefaultSentinel is the token a reasoner emits to end the conversation.
const DefaultSentinel = "TERMINATE"

// Terminator decides whether a reasoner message ends the conversation.
type Terminator interface {
	Terminated(msg message.Message) bool
}

// TerminatorFunc adapts a plain function to the Terminator interface.
type TerminatorFunc func(msg message.Message) bool

// Terminated calls f(msg).
func (f TerminatorFunc) Terminated(msg message.Message) bool { return f(msg) }

// SuffixSentinel matches when the message text, with trailing whitespace
// removed, ends with sentinel. Matching is case-sensitive. Empty text or an
// empty sentinel never matches.
func SuffixSentinel(sentinel string) Terminator {
	return TerminatorFunc(func(msg message.Message) bool {
		if sentinel == "" {
			return false
		}

		text := strings.TrimRightFunc(msg.TextContent(), unicode.IsSpace)
		if text == "" {
			return false
		}

		return strings.HasSuffix(text, sentinel)
	})
}

// ContainsSentinel matches when sentinel appears anywhere in the message
// text. It is the looser check used for short nested exchanges, where the
// model tends to append commentary after the token.
func ContainsSentinel(sentinel string) Terminator {
	return TerminatorFunc(func(msg message.Message) bool {
		if sentinel == "" {
			return false
		}

		return strings.Contains(msg.TextContent(), sentinel)
	})
}

// StripSentinel removes every occurrence of sentinel from text and trims the
// surrounding whitespace.
func StripSentinel(text, sentinel string) string {
	if sentinel != "" {
		text = strings.ReplaceAll(text, sentinel, "")
	}

	return strings.TrimSpace(text)
}
