// Package ollama provides a Completer backed by Ollama's native /api/chat
// endpoint through the official client.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/germanamz/pairloop/pkg/chats/content"
	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/modeladapter"
	"github.com/germanamz/pairloop/pkg/modeladapter/usage"
	"github.com/germanamz/pairloop/pkg/tools/toolbox"
	ollama "github.com/ollama/ollama/api"
)

// DefaultHost is used when no base URL is configured.
const DefaultHost = "http://localhost:11434"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer on top of the Ollama client.
type Adapter struct {
	modeladapter.ModelAdapter

	client  *ollama.Client
	callSeq atomic.Int64
}

// New creates an Adapter for the given host. A trailing "/v1" (the
// OpenAI-compatible prefix) is stripped so the same base URL works for both
// backends.
func New(baseURL, model string) (*Adapter, error) {
	host := strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1")
	if host == "" {
		host = DefaultHost
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base url %q: %w", baseURL, err)
	}

	a := &Adapter{}
	a.BaseURL = u.String()
	a.Name = model
	a.client = ollama.NewClient(u, a.HTTPClient())

	return a, nil
}

// Complete sends one non-streaming chat request.
func (a *Adapter) Complete(ctx context.Context, req modeladapter.Request) (message.Message, error) {
	chatReq, err := a.buildRequest(req)
	if err != nil {
		return message.Message{}, fmt.Errorf("ollama: %w", err)
	}

	var (
		text  strings.Builder
		calls []ollama.ToolCall
		last  ollama.ChatResponse
	)

	err = a.client.Chat(ctx, chatReq, func(resp ollama.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		calls = append(calls, resp.Message.ToolCalls...)
		last = resp
		return nil
	})
	if err != nil {
		return message.Message{}, fmt.Errorf("ollama: %w", modeladapter.ClassifyTimeout(err))
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  last.PromptEvalCount,
		OutputTokens: last.EvalCount,
	})

	return a.toMessage(text.String(), calls)
}

// wireToolCall mirrors the JSON shape of ollama.ToolCall. Going through JSON
// keeps the adapter independent of how a given client release types the
// arguments map or whether it carries call IDs.
type wireToolCall struct {
	ID       string `json:"id,omitempty"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
}

type wireTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string          `json:"name"`
		Description string          `json:"description,omitempty"`
		Parameters  json.RawMessage `json:"parameters"`
	} `json:"function"`
}

func (a *Adapter) buildRequest(req modeladapter.Request) (*ollama.ChatRequest, error) {
	var wire []wireMessage

	if req.System != "" {
		wire = append(wire, wireMessage{Role: "system", Content: req.System})
	}

	for _, m := range req.Messages {
		wire = appendMessage(wire, m)
	}

	msgs, err := convert[[]ollama.Message](wire)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    a.Name,
		Messages: msgs,
		Stream:   &stream,
	}

	if len(req.Tools) > 0 {
		tools, err := convert[ollama.Tools](toolDefs(req.Tools))
		if err != nil {
			return nil, fmt.Errorf("encode tools: %w", err)
		}
		chatReq.Tools = tools
	}

	options := map[string]any{}
	if a.Temperature != 0 {
		options["temperature"] = a.Temperature
	}
	if a.MaxTokens > 0 {
		options["num_predict"] = a.MaxTokens
	}
	if len(options) > 0 {
		chatReq.Options = options
	}

	return chatReq, nil
}

func toolDefs(tools []toolbox.Tool) []wireTool {
	defs := make([]wireTool, len(tools))
	for i, t := range tools {
		defs[i].Type = "function"
		defs[i].Function.Name = t.Name
		defs[i].Function.Description = t.Description
		defs[i].Function.Parameters = t.InputSchema
		if defs[i].Function.Parameters == nil {
			defs[i].Function.Parameters = json.RawMessage(`{"type":"object"}`)
		}
	}
	return defs
}

func appendMessage(msgs []wireMessage, m message.Message) []wireMessage {
	switch m.Role {
	case role.Reasoner:
		msg := wireMessage{Role: "assistant", Content: m.TextContent()}
		for _, tc := range m.ToolCalls() {
			var call wireToolCall
			call.Function.Name = tc.Name
			call.Function.Arguments = json.RawMessage(tc.Arguments)
			if !json.Valid(call.Function.Arguments) {
				call.Function.Arguments = json.RawMessage(`{}`)
			}
			msg.ToolCalls = append(msg.ToolCalls, call)
		}
		return append(msgs, msg)

	case role.Executor:
		if text := m.TextContent(); text != "" {
			msgs = append(msgs, wireMessage{Role: "user", Content: text})
		}
		for _, tr := range m.ToolResults() {
			msgs = append(msgs, wireMessage{Role: "tool", Content: tr.Content, ToolName: tr.Name})
		}
	}

	return msgs
}

func (a *Adapter) toMessage(text string, calls []ollama.ToolCall) (message.Message, error) {
	var parts []content.Part

	if text != "" {
		parts = append(parts, content.Text{Text: text})
	}

	wire, err := convert[[]wireToolCall](calls)
	if err != nil {
		return message.Message{}, fmt.Errorf("ollama: decode tool calls: %w", err)
	}

	for _, c := range wire {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", a.callSeq.Add(1))
		}

		args := string(c.Function.Arguments)
		if args == "" || args == "null" {
			args = "{}"
		}

		parts = append(parts, content.ToolCall{ID: id, Name: c.Function.Name, Arguments: args})
	}

	return message.New(a.Name, role.Reasoner, parts...), nil
}

func convert[T any](v any) (T, error) {
	var out T

	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}

	err = json.Unmarshal(data, &out)

	return out, err
}
