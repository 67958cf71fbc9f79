// Package usage tracks token consumption across reasoning turns.
package usage

import (
	"log/slog"
	"sync"
)

// TokenCount holds prompt and completion token counts for one reasoning turn.
type TokenCount struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the sum of input and output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

// Plus returns the element-wise sum of tc and other.
func (tc TokenCount) Plus(other TokenCount) TokenCount {
	return TokenCount{
		InputTokens:  tc.InputTokens + other.InputTokens,
		OutputTokens: tc.OutputTokens + other.OutputTokens,
	}
}

// LogValue implements slog.LogValuer.
func (tc TokenCount) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("input", tc.InputTokens),
		slog.Int("output", tc.OutputTokens),
	)
}

// Tracker accumulates token usage across reasoning turns.
// It is safe for concurrent use; the zero value is ready to use.
type Tracker struct {
	mu      sync.Mutex
	entries []TokenCount
}

// Add records the usage of one turn. Empty counts are ignored so that
// backends which do not report usage leave the tracker untouched.
func (t *Tracker) Add(tc TokenCount) {
	if tc == (TokenCount{}) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, tc)
}

// Last returns the most recent entry.
// The bool is false when the tracker has no entries.
func (t *Tracker) Last() (TokenCount, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == 0 {
		return TokenCount{}, false
	}

	return t.entries[len(t.entries)-1], true
}

// Total returns the aggregate token count across all entries.
func (t *Tracker) Total() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total TokenCount
	for _, e := range t.entries {
		total = total.Plus(e)
	}

	return total
}

// Count returns the number of recorded turns.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
