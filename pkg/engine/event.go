package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/germanamz/pairloop/pkg/agent"
	"github.com/germanamz/pairloop/pkg/agentctx"
)

// EventKind identifies the type of engine event.
type EventKind string

const (
	EventRunStart      EventKind = "run_start"
	EventMessageAdded  EventKind = EventKind(agent.EventMessageAdded)
	EventToolCallStart EventKind = EventKind(agent.EventToolCallStart)
	EventToolCallEnd   EventKind = EventKind(agent.EventToolCallEnd)
	EventTurnRetry     EventKind = EventKind(agent.EventTurnRetry)
	EventRunEnd        EventKind = EventKind(agent.EventRunEnd)
	EventError         EventKind = EventKind(agent.EventError)
)

// Event is an immutable notification of engine activity. Data holds the
// originating agent.Event for conversation events, or the task string for
// EventRunStart.
type Event struct {
	Kind      EventKind
	RunID     string
	Agent     string
	Depth     int // 1 for the main conversation, 2 for the nested formatter.
	Timestamp time.Time
	Data      any
}

// Subscription receives events from an EventBus.
type Subscription struct {
	C  <-chan Event
	ch chan Event

	dropped atomic.Int64
}

// Dropped returns how many events were discarded because the buffer was full.
func (s *Subscription) Dropped() int64 { return s.dropped.Load() }

// EventBus fans out events to all active subscribers. It is safe for
// concurrent use.
type EventBus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewEventBus creates an EventBus ready for use.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe creates a new subscription with the given channel buffer size.
// The caller should read from sub.C and eventually call Unsubscribe.
func (b *EventBus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish sends an event to all subscribers. If a subscriber's buffer is full
// the event is dropped for that subscriber and counted in its Dropped, so a
// slow consumer never stalls the conversation.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Notify implements agent.Notifier, stamping the run identity carried by ctx.
func (b *EventBus) Notify(ctx context.Context, e agent.Event) {
	b.Publish(Event{
		Kind:      EventKind(e.Kind),
		RunID:     agentctx.RunIDFromContext(ctx),
		Agent:     agentctx.AgentNameFromContext(ctx),
		Depth:     agentctx.Depth(ctx),
		Timestamp: time.Now(),
		Data:      e,
	})
}
