package agent

import (
	"context"
	"sync"

	"github.com/germanamz/pairloop/pkg/chats/content"
	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/modeladapter"
)

// scriptedCompleter replays a fixed sequence of replies and records every
// request it receives. Once the script runs out it keeps returning the last
// step.
type scriptedCompleter struct {
	mu       sync.Mutex
	steps    []step
	requests []modeladapter.Request
}

type step struct {
	reply message.Message
	err   error
}

func newScripted(steps ...step) *scriptedCompleter {
	return &scriptedCompleter{steps: steps}
}

func (s *scriptedCompleter) Complete(_ context.Context, req modeladapter.Request) (message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	i := len(s.requests) - 1
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}

	return s.steps[i].reply, s.steps[i].err
}

func (s *scriptedCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

func text(s string) step {
	return step{reply: message.NewText("", role.Reasoner, s)}
}

func toolCall(id, name, args string) step {
	return step{reply: message.New("", role.Reasoner, content.ToolCall{ID: id, Name: name, Arguments: args})}
}

func failure(err error) step {
	return step{err: err}
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}

	return kinds
}
