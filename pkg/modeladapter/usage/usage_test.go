package usage_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/germanamz/pairloop/pkg/modeladapter/usage"
	"github.com/stretchr/testify/assert"
)

func TestTokenCount_Total(t *testing.T) {
	tc := usage.TokenCount{InputTokens: 100, OutputTokens: 50}
	assert.Equal(t, 150, tc.Total())
	assert.Equal(t, 0, usage.TokenCount{}.Total())
}

func TestTokenCount_Plus(t *testing.T) {
	sum := usage.TokenCount{InputTokens: 1, OutputTokens: 2}.Plus(usage.TokenCount{InputTokens: 10, OutputTokens: 20})
	assert.Equal(t, usage.TokenCount{InputTokens: 11, OutputTokens: 22}, sum)
}

func TestTokenCount_LogValue(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	log.Info("turn", "tokens", usage.TokenCount{InputTokens: 7, OutputTokens: 3})

	assert.Contains(t, buf.String(), "tokens.input=7")
	assert.Contains(t, buf.String(), "tokens.output=3")
}

func TestTracker_AddIgnoresEmpty(t *testing.T) {
	var tr usage.Tracker

	tr.Add(usage.TokenCount{})
	assert.Equal(t, 0, tr.Count())

	tr.Add(usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	assert.Equal(t, 1, tr.Count())
}

func TestTracker_Last(t *testing.T) {
	var tr usage.Tracker

	_, ok := tr.Last()
	assert.False(t, ok)

	tr.Add(usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add(usage.TokenCount{InputTokens: 20, OutputTokens: 10})

	tc, ok := tr.Last()
	assert.True(t, ok)
	assert.Equal(t, usage.TokenCount{InputTokens: 20, OutputTokens: 10}, tc)
}

func TestTracker_Total(t *testing.T) {
	var tr usage.Tracker
	assert.Equal(t, usage.TokenCount{}, tr.Total())

	tr.Add(usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add(usage.TokenCount{InputTokens: 20, OutputTokens: 10})

	total := tr.Total()
	assert.Equal(t, 30, total.InputTokens)
	assert.Equal(t, 15, total.OutputTokens)
	assert.Equal(t, 45, total.Total())
}

func TestTracker_Concurrent_Add(t *testing.T) {
	var tr usage.Tracker

	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			tr.Add(usage.TokenCount{InputTokens: 1, OutputTokens: 1})
		}()
	}

	wg.Wait()

	assert.Equal(t, goroutines, tr.Count())
	assert.Equal(t, usage.TokenCount{InputTokens: goroutines, OutputTokens: goroutines}, tr.Total())
}
