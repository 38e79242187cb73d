package agent

import (
	"context"

	"github.com/campusops/adminflow/core"
)

// IntegrationCoordinator sequences the external systems domain: fetch the
// requested records, then climb back to the director, which composes the
// final reply from the record set. It owns the fetch specialist.
type IntegrationCoordinator struct{}

// NewIntegrationCoordinator creates the integration domain coordinator.
func NewIntegrationCoordinator() *IntegrationCoordinator {
	return &IntegrationCoordinator{}
}

// Owner implements Decider.
func (c *IntegrationCoordinator) Owner() core.Owner {
	return core.CoordinatorOwner(core.DomainIntegration)
}

// Decide implements Decider.
func (c *IntegrationCoordinator) Decide(_ context.Context, state *core.ConversationState, instruction core.Instruction) (core.RoutingDecision, error) {
	if retry, explanation := retryOrExplain(state); !retry && explanation != "" {
		return core.Respond(explanation), nil
	}

	if state.Records == nil {
		return core.Delegate(
			core.SpecialistOwner(core.CapabilityFetch),
			core.Instruction{Text: instruction.Text},
		), nil
	}

	return core.Delegate(core.DirectorOwner(), core.Instruction{}), nil
}
