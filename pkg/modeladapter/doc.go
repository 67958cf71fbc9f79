// Package modeladapter defines the interface and shared plumbing for
// reasoning-engine backends.
//
// It contains:
//   - [Completer] interface and the [Request] it consumes
//   - embeddable [ModelAdapter] base struct with HTTP helpers, auth, and custom headers
//   - turn failure classification: [ErrTurnTimeout] and [RateLimitError]
//   - [github.com/germanamz/pairloop/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// This package contains no provider-specific code; concrete adapters live in
// separate packages that import modeladapter.
package modeladapter
