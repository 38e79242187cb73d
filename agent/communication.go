package agent

import (
	"context"

	"github.com/campusops/adminflow/core"
)

// CommunicationCoordinator sequences the outbound messaging domain: draft
// and send the email, then confirm. It owns the mail specialist.
type CommunicationCoordinator struct{}

// NewCommunicationCoordinator creates the communication domain coordinator.
func NewCommunicationCoordinator() *CommunicationCoordinator {
	return &CommunicationCoordinator{}
}

// Owner implements Decider.
func (c *CommunicationCoordinator) Owner() core.Owner {
	return core.CoordinatorOwner(core.DomainCommunication)
}

// Decide implements Decider. The send confirmation is the final reply as
// is: there is nothing for a model to add to "message sent", and echoing
// the adapter's confirmation keeps the reply truthful about what happened.
func (c *CommunicationCoordinator) Decide(_ context.Context, state *core.ConversationState, instruction core.Instruction) (core.RoutingDecision, error) {
	if retry, explanation := retryOrExplain(state); !retry && explanation != "" {
		return core.Respond(explanation), nil
	}

	if state.Confirmation == "" {
		return core.Delegate(
			core.SpecialistOwner(core.CapabilityMail),
			core.Instruction{Text: instruction.Text, Rows: state.Rows, Columns: state.Columns},
		), nil
	}

	return core.Respond(state.Confirmation), nil
}
