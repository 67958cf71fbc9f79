// Package providers groups the reasoning-engine backends.
//
// Each sub-package implements [github.com/germanamz/pairloop/pkg/modeladapter.Completer]:
//   - [github.com/germanamz/pairloop/pkg/providers/openai]: OpenAI-compatible chat completions (Ollama's /v1 endpoint, vLLM, LM Studio)
//   - [github.com/germanamz/pairloop/pkg/providers/ollama]: native Ollama /api/chat via the official client
package providers
