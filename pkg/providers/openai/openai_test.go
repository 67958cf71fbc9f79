package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/pairloop/pkg/chats/content"
	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/modeladapter"
	"github.com/germanamz/pairloop/pkg/providers/openai"
	"github.com/germanamz/pairloop/pkg/tools/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *openai.Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return openai.New(srv.URL+"/v1/", "test-key", "llama3.1")
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func textReply(text string, prompt, completion int) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": prompt, "completion_tokens": completion},
	}
}

func TestComplete_SimpleText(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		req := readBody(t, r)
		assert.Equal(t, "llama3.1", req["model"])
		assert.Equal(t, false, req["stream"])

		msgs, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 2)

		first, _ := msgs[0].(map[string]any)
		assert.Equal(t, "system", first["role"])
		assert.Equal(t, "You are helpful.", first["content"])

		second, _ := msgs[1].(map[string]any)
		assert.Equal(t, "user", second["role"])
		assert.Equal(t, "Hi", second["content"])

		writeJSON(t, w, textReply("Hello there!", 10, 5))
	})

	msg, err := adapter.Complete(context.Background(), modeladapter.Request{
		System:   "You are helpful.",
		Messages: []message.Message{message.NewText("executor", role.Executor, "Hi")},
	})
	require.NoError(t, err)

	assert.Equal(t, role.Reasoner, msg.Role)
	assert.Equal(t, "llama3.1", msg.Sender)
	assert.Equal(t, "Hello there!", msg.TextContent())

	last, ok := adapter.Usage.Last()
	require.True(t, ok)
	assert.Equal(t, 10, last.InputTokens)
	assert.Equal(t, 5, last.OutputTokens)
}

func TestComplete_NoSystemPrompt(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		msgs, _ := readBody(t, r)["messages"].([]any)
		require.Len(t, msgs, 1)

		first, _ := msgs[0].(map[string]any)
		assert.Equal(t, "user", first["role"])

		writeJSON(t, w, textReply("ok", 1, 1))
	})

	_, err := adapter.Complete(context.Background(), modeladapter.Request{
		Messages: []message.Message{message.NewText("executor", role.Executor, "Hi")},
	})
	require.NoError(t, err)
}

func TestComplete_ToolRoundTrip(t *testing.T) {
	callCount := 0

	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		callCount++
		req := readBody(t, r)

		tools, ok := req["tools"].([]any)
		require.True(t, ok)
		require.Len(t, tools, 1)

		tool, _ := tools[0].(map[string]any)
		assert.Equal(t, "function", tool["type"])
		fn, _ := tool["function"].(map[string]any)
		assert.Equal(t, "calculator", fn["name"])

		if callCount == 1 {
			writeJSON(t, w, map[string]any{
				"choices": []map[string]any{
					{
						"message": map[string]any{
							"role":    "assistant",
							"content": nil,
							"tool_calls": []map[string]any{
								{
									"id":   "call_1",
									"type": "function",
									"function": map[string]any{
										"name":      "calculator",
										"arguments": `{"a":125,"b":8,"operation":"multiply"}`,
									},
								},
							},
						},
						"finish_reason": "tool_calls",
					},
				},
				"usage": map[string]any{"prompt_tokens": 15, "completion_tokens": 8},
			})
			return
		}

		msgs, _ := req["messages"].([]any)
		require.Len(t, msgs, 3)

		assistant, _ := msgs[1].(map[string]any)
		assert.Equal(t, "assistant", assistant["role"])
		assert.Nil(t, assistant["content"])
		calls, _ := assistant["tool_calls"].([]any)
		assert.Len(t, calls, 1)

		toolMsg, _ := msgs[2].(map[string]any)
		assert.Equal(t, "tool", toolMsg["role"])
		assert.Equal(t, "call_1", toolMsg["tool_call_id"])
		assert.Equal(t, "125 * 8 = 1000", toolMsg["content"])

		writeJSON(t, w, textReply("1000. TERMINATE", 25, 12))
	})

	tools := []toolbox.Tool{{
		Name:        "calculator",
		Description: "A simple calculator",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}}

	transcript := []message.Message{message.NewText("executor", role.Executor, "What is 125 * 8?")}

	msg, err := adapter.Complete(context.Background(), modeladapter.Request{Messages: transcript, Tools: tools})
	require.NoError(t, err)

	calls := msg.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "calculator", calls[0].Name)
	assert.JSONEq(t, `{"a":125,"b":8,"operation":"multiply"}`, calls[0].Arguments)

	transcript = append(transcript, msg, message.New("executor", role.Executor, content.ToolResult{
		ToolCallID: "call_1",
		Name:       "calculator",
		Content:    "125 * 8 = 1000",
	}))

	msg, err = adapter.Complete(context.Background(), modeladapter.Request{Messages: transcript, Tools: tools})
	require.NoError(t, err)
	assert.Equal(t, "1000. TERMINATE", msg.TextContent())

	total := adapter.Usage.Total()
	assert.Equal(t, 40, total.InputTokens)
	assert.Equal(t, 20, total.OutputTokens)
}

func TestComplete_MissingToolCallIDIsGenerated(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{
				{
					"message": map[string]any{
						"role": "assistant",
						"tool_calls": []map[string]any{
							{"type": "function", "function": map[string]any{"name": "calculator", "arguments": `{}`}},
							{"type": "function", "function": map[string]any{"name": "calculator", "arguments": `{}`}},
						},
					},
				},
			},
		})
	})

	msg, err := adapter.Complete(context.Background(), modeladapter.Request{
		Messages: []message.Message{message.NewText("executor", role.Executor, "go")},
	})
	require.NoError(t, err)

	calls := msg.ToolCalls()
	require.Len(t, calls, 2)
	assert.NotEmpty(t, calls[0].ID)
	assert.NotEqual(t, calls[0].ID, calls[1].ID)
}

func TestComplete_EmptyChoices(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{},
			"usage":   map[string]any{"prompt_tokens": 5, "completion_tokens": 0},
		})
	})

	_, err := adapter.Complete(context.Background(), modeladapter.Request{
		Messages: []message.Message{message.NewText("executor", role.Executor, "Hi")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}

func TestComplete_EmptyReplyIsResentAsEmptyString(t *testing.T) {
	turn := 0
	adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		turn++
		req := readBody(t, r)

		msgs, ok := req["messages"].([]any)
		require.True(t, ok)

		// Reject assistant messages without content unless they carry tool calls.
		for _, raw := range msgs {
			m, _ := raw.(map[string]any)
			if m["role"] != "assistant" || m["tool_calls"] != nil {
				continue
			}
			if _, isString := m["content"].(string); !isString {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"invalid message content type: <nil>"}}`))
				return
			}
		}

		if turn == 1 {
			writeJSON(t, w, textReply("", 5, 0))
			return
		}
		writeJSON(t, w, textReply("Done. TERMINATE", 8, 3))
	})

	transcript := []message.Message{message.NewText("executor", role.Executor, "Hi")}

	first, err := adapter.Complete(context.Background(), modeladapter.Request{Messages: transcript})
	require.NoError(t, err)
	assert.Empty(t, first.TextContent())
	assert.False(t, first.HasToolCalls())

	transcript = append(transcript, first, message.NewText("executor", role.Executor, "Continue."))

	second, err := adapter.Complete(context.Background(), modeladapter.Request{Messages: transcript})
	require.NoError(t, err)
	assert.Equal(t, "Done. TERMINATE", second.TextContent())
	assert.Equal(t, 2, turn)
}

func TestComplete_RateLimited(t *testing.T) {
	adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	})

	_, err := adapter.Complete(context.Background(), modeladapter.Request{
		Messages: []message.Message{message.NewText("executor", role.Executor, "Hi")},
	})
	require.Error(t, err)

	var rle *modeladapter.RateLimitError
	assert.ErrorAs(t, err, &rle)
}
