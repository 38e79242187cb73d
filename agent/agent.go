// Package agent implements the three-level hierarchy that owns a turn: the
// director classifies intent and is the terminal authority on the final
// response, one coordinator per domain sequences the specialists it owns,
// and each specialist formulates exactly one tool adapter call. Routing
// authority is strictly layered. Specialists have none, coordinators route
// only within their own domain, and only the director switches domains, so
// every routing decision stays small and every failure is attributable to
// a single level.
package agent

import (
	"context"

	"github.com/campusops/adminflow/core"
)

// Decider is the contract of the director and the coordinators: given the
// conversation state and the instruction from its parent, produce the next
// routing decision. Implementations must always decide. Ambiguity is
// resolved by documented fallbacks, never by blocking, and a decision must
// be idempotent for an unchanged (state, instruction) pair.
type Decider interface {
	Owner() core.Owner
	Decide(ctx context.Context, state *core.ConversationState, instruction core.Instruction) (core.RoutingDecision, error)
}

// Specialist executes one capability. Execute may consult the language
// model to formulate the concrete adapter call but invokes the adapter
// exactly once, and sees nothing of the conversation beyond the
// instruction. Fold merges a successful result into the conversation
// state; the graph calls it so that it never has to understand result
// payloads itself.
type Specialist interface {
	Owner() core.Owner
	Execute(ctx context.Context, instruction core.Instruction) core.ToolResult
	Fold(state *core.ConversationState, result core.ToolResult) error
}

var (
	_ Decider = (*Director)(nil)
	_ Decider = (*AnalysisCoordinator)(nil)
	_ Decider = (*CommunicationCoordinator)(nil)
	_ Decider = (*DataManagementCoordinator)(nil)
	_ Decider = (*IntegrationCoordinator)(nil)

	_ Specialist = (*QuerySpecialist)(nil)
	_ Specialist = (*ChartSpecialist)(nil)
	_ Specialist = (*MailSpecialist)(nil)
	_ Specialist = (*WriteSpecialist)(nil)
	_ Specialist = (*FetchSpecialist)(nil)
	_ Specialist = (*SyntheticSpecialist)(nil)
)
