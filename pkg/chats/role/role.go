// Package role defines the sender roles used in a reasoner/executor conversation.
package role

// Role represents the sender of a message in a conversation.
type Role string

const (
	// Reasoner messages come from the model-backed agent: plain text,
	// tool call requests, or the completion sentinel.
	Reasoner Role = "reasoner"
	// Executor messages carry the seed task, tool results and auto-replies.
	Executor Role = "executor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case Reasoner, Executor:
		return true
	}
	return false
}

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}
