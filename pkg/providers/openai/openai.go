// Package openai provides a Completer for OpenAI-compatible chat completion
// endpoints, such as Ollama's /v1 API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/germanamz/pairloop/pkg/chats/content"
	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/modeladapter"
	"github.com/germanamz/pairloop/pkg/modeladapter/usage"
)

const completionsPath = "/chat/completions"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Chat Completions API.
type Adapter struct {
	modeladapter.ModelAdapter

	callSeq atomic.Int64
}

// New creates an Adapter. baseURL includes the version segment, for example
// "http://localhost:11434/v1". apiKey may be empty for local servers.
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = strings.TrimRight(baseURL, "/")
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model

	return a
}

// Complete sends the request and returns the reply as a reasoner message.
func (a *Adapter) Complete(ctx context.Context, req modeladapter.Request) (message.Message, error) {
	body := a.buildRequest(req)

	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, body, &resp); err != nil {
		return message.Message{}, fmt.Errorf("openai: %w", err)
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	if len(resp.Choices) == 0 {
		return message.Message{}, fmt.Errorf("openai: empty choices in response")
	}

	return a.parseChoice(resp.Choices[0]), nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
	Tools       []apiToolDef `json:"tools,omitempty"`
	Stream      bool         `json:"stream"`
}

type apiMessage struct {
	Role       string        `json:"role"`
	Content    *string       `json:"content"`
	ToolCalls  []apiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
}

type apiToolCall struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function apiToolFunction `json:"function"`
}

type apiToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type apiToolDef struct {
	Type     string         `json:"type"`
	Function apiToolDefFunc `json:"function"`
}

type apiToolDefFunc struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role      string        `json:"role"`
	Content   *string       `json:"content"`
	ToolCalls []apiToolCall `json:"tool_calls,omitempty"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(req modeladapter.Request) apiRequest {
	body := apiRequest{
		Model:     a.Name,
		MaxTokens: a.MaxTokens,
	}

	if a.Temperature != 0 {
		t := a.Temperature
		body.Temperature = &t
	}

	for _, t := range req.Tools {
		schema := t.InputSchema
		if schema == nil {
			schema = json.RawMessage(`{"type":"object"}`)
		}
		body.Tools = append(body.Tools, apiToolDef{
			Type: "function",
			Function: apiToolDefFunc{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schema,
			},
		})
	}

	if req.System != "" {
		system := req.System
		body.Messages = append(body.Messages, apiMessage{Role: "system", Content: &system})
	}

	for _, m := range req.Messages {
		body.Messages = appendMessage(body.Messages, m)
	}

	return body
}

// appendMessage maps a transcript message onto the wire roles: reasoner
// turns are "assistant", executor text is "user", and each executor tool
// result becomes its own "tool" message.
func appendMessage(msgs []apiMessage, m message.Message) []apiMessage {
	switch m.Role {
	case role.Reasoner:
		msg := apiMessage{Role: "assistant"}
		// Content may only be null when tool calls are present; an empty
		// reply is sent back as "".
		if text := m.TextContent(); text != "" || !m.HasToolCalls() {
			msg.Content = &text
		}
		for _, tc := range m.ToolCalls() {
			args := tc.Arguments
			if args == "" {
				args = "{}"
			}
			msg.ToolCalls = append(msg.ToolCalls, apiToolCall{
				ID:       tc.ID,
				Type:     "function",
				Function: apiToolFunction{Name: tc.Name, Arguments: args},
			})
		}
		return append(msgs, msg)

	case role.Executor:
		if text := m.TextContent(); text != "" {
			msgs = append(msgs, apiMessage{Role: "user", Content: &text})
		}
		for _, tr := range m.ToolResults() {
			result := tr.Content
			msgs = append(msgs, apiMessage{Role: "tool", Content: &result, ToolCallID: tr.ToolCallID})
		}
	}

	return msgs
}

func (a *Adapter) parseChoice(choice apiChoice) message.Message {
	var parts []content.Part

	if choice.Message.Content != nil && *choice.Message.Content != "" {
		parts = append(parts, content.Text{Text: *choice.Message.Content})
	}

	for _, tc := range choice.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", a.callSeq.Add(1))
		}
		parts = append(parts, content.ToolCall{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return message.New(a.Name, role.Reasoner, parts...)
}
