package message

import (
	"testing"

	"github.com/germanamz/pairloop/pkg/chats/content"
	"github.com/germanamz/pairloop/pkg/chats/role"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	msg := New("executor", role.Executor, content.Text{Text: "hello"}, content.ToolResult{ToolCallID: "1"})

	assert.Equal(t, "executor", msg.Sender)
	assert.Equal(t, role.Executor, msg.Role)
	assert.Len(t, msg.Parts, 2)
}

func TestNewText(t *testing.T) {
	msg := NewText("assistant", role.Reasoner, "hi there")

	assert.Equal(t, "assistant", msg.Sender)
	assert.Equal(t, role.Reasoner, msg.Role)
	assert.Len(t, msg.Parts, 1)
	assert.Equal(t, "hi there", msg.Parts[0].(content.Text).Text)
}

func TestMessage_TextContent(t *testing.T) {
	msg := New("assistant", role.Reasoner,
		content.Text{Text: "hello "},
		content.ToolCall{ID: "1", Name: "calculator"},
		content.Text{Text: "world"},
	)

	assert.Equal(t, "hello world", msg.TextContent())
}

func TestMessage_TextContent_NoParts(t *testing.T) {
	msg := New("assistant", role.Reasoner)
	assert.Empty(t, msg.TextContent())
}

func TestMessage_ToolCalls(t *testing.T) {
	tc1 := content.ToolCall{ID: "1", Name: "calculator", Arguments: `{"a":125,"b":8,"operation":"multiply"}`}
	tc2 := content.ToolCall{ID: "2", Name: "calculator", Arguments: `{"a":1000,"b":50,"operation":"subtract"}`}
	msg := New("assistant", role.Reasoner,
		content.Text{Text: "let me compute"},
		tc1,
		tc2,
	)

	calls := msg.ToolCalls()
	assert.Len(t, calls, 2)
	assert.Equal(t, tc1, calls[0])
	assert.Equal(t, tc2, calls[1])
	assert.True(t, msg.HasToolCalls())
}

func TestMessage_ToolCalls_None(t *testing.T) {
	msg := NewText("assistant", role.Reasoner, "TERMINATE")
	assert.Empty(t, msg.ToolCalls())
	assert.False(t, msg.HasToolCalls())
}

func TestMessage_ToolResults(t *testing.T) {
	tr := content.ToolResult{ToolCallID: "1", Name: "calculator", Content: "1 + 1 = 2"}
	msg := New("executor", role.Executor, tr)

	assert.Equal(t, []content.ToolResult{tr}, msg.ToolResults())
}
