// Package builtin defines the closed set of tools the executor can run. Each
// tool is a tagged variant with a typed argument struct; raw model arguments
// are decoded with an explicit switch on the tool kind and executed with a
// type switch, so no reflection happens at dispatch time.
package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/germanamz/pairloop/pkg/tools/calculator"
	"github.com/germanamz/pairloop/pkg/tools/email"
	"github.com/germanamz/pairloop/pkg/tools/toolbox"
)

// Kind names a built-in tool. It doubles as the tool name exposed to the model.
type Kind string

const (
	Calculator Kind = "calculator"
	SendEmail  Kind = "send_email"
)

// Kinds lists every built-in tool.
var Kinds = []Kind{Calculator, SendEmail}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Calculator, SendEmail:
		return Kind(s), nil
	}
	return "", fmt.Errorf("builtin: unknown tool %q", s)
}

// Description returns the description declared to the model.
func (k Kind) Description() string {
	switch k {
	case Calculator:
		return "A simple calculator that can add, subtract, multiply, or divide two numbers."
	case SendEmail:
		return "Send an email to a recipient with a subject and body. Use this when the user asks to send an email."
	}
	return ""
}

// Call is a decoded tool invocation. The concrete type identifies the variant.
type Call interface {
	Kind() Kind
}

// CalculatorCall holds the arguments of the calculator tool.
type CalculatorCall struct {
	A         calculator.Number    `json:"a" jsonschema_description:"The first number"`
	B         calculator.Number    `json:"b" jsonschema_description:"The second number"`
	Operation calculator.Operation `json:"operation" jsonschema:"enum=add,enum=subtract,enum=multiply,enum=divide" jsonschema_description:"The operation to perform"`
}

// Kind implements Call.
func (CalculatorCall) Kind() Kind { return Calculator }

// SendEmailCall holds the arguments of the send_email tool.
type SendEmailCall email.Args

// Kind implements Call.
func (SendEmailCall) Kind() Kind { return SendEmail }

// Decode parses raw arguments into the typed call for kind.
func Decode(kind Kind, raw json.RawMessage) (Call, error) {
	switch kind {
	case Calculator:
		var c CalculatorCall
		if err := decodeArgs(raw, &c, "a", "b", "operation"); err != nil {
			return nil, err
		}
		return c, nil
	case SendEmail:
		var c SendEmailCall
		if err := decodeArgs(raw, &c, "to", "subject", "body"); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("builtin: unknown tool %q", kind)
}

// decodeArgs unmarshals raw into dst after checking that every required key
// is present.
func decodeArgs(raw json.RawMessage, dst any, required ...string) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	for _, k := range required {
		if _, ok := keys[k]; !ok {
			return fmt.Errorf("missing required argument %q", k)
		}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	return nil
}

// Set executes decoded calls. The zero value runs the calculator only.
type Set struct {
	email *email.Sender
}

// Option configures a Set.
type Option func(*Set)

// WithEmail enables the send_email tool backed by s.
func WithEmail(s *email.Sender) Option {
	return func(set *Set) { set.email = s }
}

// New creates a Set.
func New(opts ...Option) *Set {
	s := &Set{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs call and returns its textual result.
func (s *Set) Execute(ctx context.Context, call Call) (string, error) {
	switch c := call.(type) {
	case CalculatorCall:
		return calculator.Calculate(c.A, c.B, c.Operation), nil
	case SendEmailCall:
		if s.email == nil {
			return "", errors.New("send_email is not configured")
		}
		data, err := json.Marshal(s.email.Send(ctx, email.Args(c)))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("builtin: unsupported call %T", call)
}

// Tool builds the registry entry for kind.
func (s *Set) Tool(kind Kind) (toolbox.Tool, error) {
	if kind == SendEmail && s.email == nil {
		return toolbox.Tool{}, errors.New("builtin: send_email requires an email sender")
	}

	schema, err := Schema(kind)
	if err != nil {
		return toolbox.Tool{}, err
	}

	return toolbox.Tool{
		Name:        string(kind),
		Description: kind.Description(),
		InputSchema: schema,
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			call, err := Decode(kind, input)
			if err != nil {
				return "", err
			}
			return s.Execute(ctx, call)
		},
	}, nil
}

// Register adds the given kinds to tb.
func (s *Set) Register(tb *toolbox.ToolBox, kinds ...Kind) error {
	for _, k := range kinds {
		t, err := s.Tool(k)
		if err != nil {
			return err
		}
		if err := tb.Register(t); err != nil {
			return err
		}
	}
	return nil
}
