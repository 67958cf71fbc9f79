// Package agentctx carries run identity through a context so that logs and
// events emitted deep inside tool handlers can be attributed to the right
// conversation. It has no dependencies so every package can import it.
package agentctx

import "context"

type (
	agentNameCtxKey struct{}
	runIDCtxKey     struct{}
	depthCtxKey     struct{}
)

// WithAgentName returns a new context carrying the given agent name and one
// more level of nesting than its parent.
func WithAgentName(ctx context.Context, name string) context.Context {
	ctx = context.WithValue(ctx, depthCtxKey{}, Depth(ctx)+1)
	return context.WithValue(ctx, agentNameCtxKey{}, name)
}

// AgentNameFromContext extracts the agent name from the context.
// Returns "" if no agent name is present.
func AgentNameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(agentNameCtxKey{}).(string)
	return v
}

// Depth reports how many named conversations enclose ctx. A top-level run
// has depth 1; a conversation started from inside one of its tools has 2.
func Depth(ctx context.Context) int {
	v, _ := ctx.Value(depthCtxKey{}).(int)
	return v
}

// WithRunID returns a new context carrying the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDCtxKey{}, id)
}

// RunIDFromContext extracts the run identifier, or "" when absent.
func RunIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(runIDCtxKey{}).(string)
	return v
}
