package agent

import (
	"context"
	"strings"

	"github.com/campusops/adminflow/core"
)

// syntheticCues are the request phrasings that route a data management
// turn to bulk synthetic generation instead of a single write.
var syntheticCues = []string{"synthetic", "generate", "sample data", "seed", "mock data", "test data"}

// DataManagementCoordinator sequences the mutating domain: route the
// request to either the single-record write specialist or the synthetic
// batch specialist, then confirm. Rejections surface immediately and are
// never retried.
type DataManagementCoordinator struct{}

// NewDataManagementCoordinator creates the data management coordinator.
func NewDataManagementCoordinator() *DataManagementCoordinator {
	return &DataManagementCoordinator{}
}

// Owner implements Decider.
func (c *DataManagementCoordinator) Owner() core.Owner {
	return core.CoordinatorOwner(core.DomainDataManagement)
}

// Decide implements Decider.
func (c *DataManagementCoordinator) Decide(_ context.Context, state *core.ConversationState, instruction core.Instruction) (core.RoutingDecision, error) {
	if retry, explanation := retryOrExplain(state); !retry && explanation != "" {
		return core.Respond(explanation), nil
	}

	if state.Confirmation == "" {
		capability := core.CapabilityWrite
		if wantsSynthetic(instruction.Text) {
			capability = core.CapabilitySynthetic
		}
		return core.Delegate(
			core.SpecialistOwner(capability),
			core.Instruction{Text: instruction.Text},
		), nil
	}

	return core.Respond(state.Confirmation), nil
}

func wantsSynthetic(text string) bool {
	lower := strings.ToLower(text)
	for _, cue := range syntheticCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
