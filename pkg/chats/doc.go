// Package chats provides the transcript data model shared by the reasoner,
// the executor and the orchestrator.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/pairloop/pkg/chats/role]: conversation roles (reasoner, executor)
//   - [github.com/germanamz/pairloop/pkg/chats/content]: content parts (text, tool call, tool result)
//   - [github.com/germanamz/pairloop/pkg/chats/message]: messages composed of a role, sender, and content parts
//   - [github.com/germanamz/pairloop/pkg/chats/chat]: append-only transcript container
//
// No provider or API code is included; chats is a foundation layer that
// model adapters translate to and from.
package chats
