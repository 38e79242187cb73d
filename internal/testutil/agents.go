package testutil

import (
	"context"
	"sync/atomic"

	"github.com/campusops/adminflow/core"
)

// ScriptedDecider replays a fixed sequence of routing decisions, then keeps
// returning the last one. Decisions returns how many times Decide ran.
type ScriptedDecider struct {
	owner     core.Owner
	decisions []core.RoutingDecision
	calls     atomic.Int64
}

// NewScriptedDecider creates a decider for owner replaying decisions in order.
func NewScriptedDecider(owner core.Owner, decisions ...core.RoutingDecision) *ScriptedDecider {
	return &ScriptedDecider{owner: owner, decisions: decisions}
}

// Owner returns the scripted owner identity.
func (d *ScriptedDecider) Owner() core.Owner { return d.owner }

// Decide replays the next scripted decision.
func (d *ScriptedDecider) Decide(context.Context, *core.ConversationState, core.Instruction) (core.RoutingDecision, error) {
	n := int(d.calls.Add(1)) - 1
	if n >= len(d.decisions) {
		n = len(d.decisions) - 1
	}
	return d.decisions[n], nil
}

// Decisions reports how many times Decide was called.
func (d *ScriptedDecider) Decisions() int { return int(d.calls.Load()) }

// ScriptedSpecialist replays a fixed sequence of tool results; successful
// results are folded by copying their payload fields onto the state.
type ScriptedSpecialist struct {
	owner   core.Owner
	results []core.ToolResult
	calls   atomic.Int64
}

// NewScriptedSpecialist creates a specialist for owner replaying results in
// order, repeating the last one once exhausted.
func NewScriptedSpecialist(owner core.Owner, results ...core.ToolResult) *ScriptedSpecialist {
	return &ScriptedSpecialist{owner: owner, results: results}
}

// Owner returns the scripted owner identity.
func (s *ScriptedSpecialist) Owner() core.Owner { return s.owner }

// Execute replays the next scripted result.
func (s *ScriptedSpecialist) Execute(context.Context, core.Instruction) core.ToolResult {
	n := int(s.calls.Add(1)) - 1
	if n >= len(s.results) {
		n = len(s.results) - 1
	}
	return s.results[n]
}

// Fold copies the result payload onto the state field matching its shape.
func (s *ScriptedSpecialist) Fold(state *core.ConversationState, result core.ToolResult) error {
	switch {
	case result.Visualization != nil:
		state.Visualization = result.Visualization
	case result.Records != nil:
		state.Records = result.Records
	case result.Confirmation != "":
		state.Confirmation = result.Confirmation
	default:
		state.Rows = result.Rows
		state.Columns = result.Columns
	}
	return nil
}

// Executions reports how many times Execute was called.
func (s *ScriptedSpecialist) Executions() int { return int(s.calls.Load()) }
