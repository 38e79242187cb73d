package testutil

import (
	"github.com/campusops/adminflow/core"
)

// StateBuilder constructs conversation states with fluent chaining.
// Example:
//
//	st := NewStateBuilder("sess-1").User("how many students?").Rows(rows, cols).Build()
type StateBuilder struct {
	state *core.ConversationState
}

// NewStateBuilder creates a builder for the given session id.
func NewStateBuilder(sessionID string) *StateBuilder {
	return &StateBuilder{state: core.NewConversationState(sessionID)}
}

// User appends a user message (chainable).
func (b *StateBuilder) User(text string) *StateBuilder {
	b.state.AddMessage("user", text)
	return b
}

// Assistant appends an assistant message (chainable).
func (b *StateBuilder) Assistant(text string) *StateBuilder {
	b.state.AddMessage("assistant", text)
	return b
}

// Rows sets the turn's query result (chainable).
func (b *StateBuilder) Rows(rows core.Rows, columns []string) *StateBuilder {
	b.state.Rows = rows
	b.state.Columns = columns
	return b
}

// Confirmation sets the turn's side-effect confirmation (chainable).
func (b *StateBuilder) Confirmation(text string) *StateBuilder {
	b.state.Confirmation = text
	return b
}

// Records sets the turn's external record set (chainable).
func (b *StateBuilder) Records(rs *core.RecordSet) *StateBuilder {
	b.state.Records = rs
	return b
}

// Failure sets the turn's recorded tool failure (chainable).
func (b *StateBuilder) Failure(c core.Capability, kind core.FailureKind, cause string) *StateBuilder {
	b.state.LastFailure = &core.ToolFailure{Capability: c, Kind: kind, Cause: cause}
	return b
}

// Retried marks the turn's single retry as already spent (chainable).
func (b *StateBuilder) Retried() *StateBuilder {
	b.state.RetryCount = 1
	return b
}

// Build returns the assembled state.
func (b *StateBuilder) Build() *core.ConversationState {
	return b.state
}
