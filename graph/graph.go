// Package graph implements the per-turn orchestration state machine. A
// turn moves through a small set of phases (routing, executing, responding,
// failed, done) under three hard guarantees: a step ceiling bounds the
// number of transitions, a wall-clock timeout bounds the whole turn, and
// cancellation is honored at routing boundaries only, so a tool invocation
// already in flight is never abandoned halfway through a side effect.
// Every transition is appended to the trace before it takes effect.
package graph

import (
	"context"
	"errors"
	"time"

	"github.com/campusops/adminflow/agent"
	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/metrics"
	"github.com/campusops/adminflow/trace"
)

// Phase is the coarse position of a turn in its lifecycle.
type Phase int

const (
	// PhaseRouting means a director or coordinator is deciding the next step.
	PhaseRouting Phase = iota
	// PhaseExecuting means a specialist is invoking its tool adapter.
	PhaseExecuting
	// PhaseResponding means a final message is being committed.
	PhaseResponding
	// PhaseFailed means the turn is terminating on a failure path.
	PhaseFailed
	// PhaseDone is terminal.
	PhaseDone
)

// String returns the phase name used in traces and logs.
func (p Phase) String() string {
	switch p {
	case PhaseRouting:
		return "routing"
	case PhaseExecuting:
		return "executing"
	case PhaseResponding:
		return "responding"
	case PhaseFailed:
		return "failed"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

const (
	// DefaultMaxSteps bounds transitions per turn. The deepest legitimate
	// flow (classify, route, query, route, chart, route, respond) stays
	// well under it; anything approaching the ceiling is a routing loop.
	DefaultMaxSteps = 16

	// DefaultTurnTimeout bounds one turn's wall-clock time.
	DefaultTurnTimeout = 60 * time.Second
)

// User-facing messages for the failure terminal paths. The internal reason
// goes to the trace and logs, never to the user.
const (
	stepLimitMessage = "I couldn't complete that request in a reasonable number of steps. Please try rephrasing it as a simpler task."
	timeoutMessage   = "That request took longer than expected and was stopped. Please try again."
	canceledMessage  = "That request was canceled before it completed."
	internalMessage  = "Something went wrong while handling that request. Please try again."
)

// Options configure a Graph.
type Options struct {
	MaxSteps    int
	TurnTimeout time.Duration
	// Recorder receives one entry per transition; nil disables tracing.
	Recorder trace.Recorder
	// Metrics may be nil.
	Metrics *metrics.Collector
	Logger  *logging.TurnLogger
}

// Graph drives turns through the agent hierarchy. It is stateless across
// turns and safe for concurrent use; all per-turn state lives on the
// ConversationState the caller passes in under the session lock.
type Graph struct {
	registry    *agent.Registry
	maxSteps    int
	turnTimeout time.Duration
	recorder    trace.Recorder
	metrics     *metrics.Collector
	logger      *logging.TurnLogger
}

// New creates a Graph over the given owner registry.
func New(registry *agent.Registry, optFns ...func(o *Options)) *Graph {
	opts := Options{
		MaxSteps:    DefaultMaxSteps,
		TurnTimeout: DefaultTurnTimeout,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger(nil)
	}
	return &Graph{
		registry:    registry,
		maxSteps:    opts.MaxSteps,
		turnTimeout: opts.TurnTimeout,
		recorder:    opts.Recorder,
		metrics:     opts.Metrics,
		logger:      opts.Logger.WithComponent("graph"),
	}
}

// RunTurn drives one user message through the hierarchy until a terminal
// phase. The caller must hold the session lock for state.
//
// Every return carries a well-formed, user-safe TurnResponse. The error is
// non-nil only for the turn-level terminations (ErrStepLimitExceeded,
// ErrTurnTimeout, context.Canceled) so callers can observe them; the
// response is still the one to show the user.
func (g *Graph) RunTurn(ctx context.Context, state *core.ConversationState, message string) (core.TurnResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.turnTimeout)
	defer cancel()

	state.BeginTurn(message)
	logger := g.logger.WithSession(state.SessionID)
	start := time.Now()

	owner := core.DirectorOwner()
	phase := PhaseRouting
	// Instruction each owner was last delegated, so a climb back into a
	// coordinator re-enters with the task text the director handed it.
	instructions := map[core.Owner]core.Instruction{}

	for {
		state.StepCount++
		if state.StepCount > g.maxSteps {
			g.record(state, owner, "fail:step limit")
			return g.finish(state, logger, start, stepLimitMessage, "step_limit", core.ErrStepLimitExceeded)
		}
		state.CurrentOwner = owner

		switch phase {
		case PhaseRouting:
			// Cancellation boundary. A deadline observed here ends the
			// turn between steps, never mid tool invocation.
			if err := ctx.Err(); err != nil {
				g.record(state, owner, "fail:"+err.Error())
				if errors.Is(err, context.DeadlineExceeded) {
					return g.finish(state, logger, start, timeoutMessage, "timeout", core.ErrTurnTimeout)
				}
				return g.finish(state, logger, start, canceledMessage, "canceled", err)
			}

			decider, ok := g.registry.Decider(owner)
			if !ok {
				g.record(state, owner, "fail:unknown owner")
				return g.finish(state, logger, start, internalMessage, "internal", nil)
			}
			decision, err := decider.Decide(ctx, state, instructions[owner])
			if err != nil {
				logger.Error("routing decision failed", "owner", owner.String(), "error", err)
				g.record(state, owner, "fail:decide error")
				return g.finish(state, logger, start, internalMessage, "internal", nil)
			}
			g.record(state, owner, decision.Action())

			switch decision.Kind {
			case core.DecisionDelegate:
				instructions[decision.Target] = decision.Instruction
				owner = decision.Target
				if owner.Kind == core.OwnerSpecialist {
					phase = PhaseExecuting
				}
			case core.DecisionRespond:
				return g.respond(state, logger, start, decision.Message)
			case core.DecisionFail:
				logger.Warn("owner failed the turn", "owner", owner.String(), "reason", decision.Reason)
				return g.finish(state, logger, start, internalMessage, "internal", nil)
			}

		case PhaseExecuting:
			specialist, ok := g.registry.Specialist(owner)
			if !ok {
				g.record(state, owner, "fail:unknown owner")
				return g.finish(state, logger, start, internalMessage, "internal", nil)
			}

			toolStart := time.Now()
			result := specialist.Execute(ctx, instructions[owner])
			g.observeTool(logger, result, time.Since(toolStart))

			if !result.OK() {
				state.LastFailure = result.Failure
				g.record(state, owner, "error:"+string(result.Failure.Kind))
			} else if err := specialist.Fold(state, result); err != nil {
				state.LastFailure = &core.ToolFailure{
					Capability: result.Capability,
					Kind:       core.FailureInternal,
					Cause:      err.Error(),
				}
				g.record(state, owner, "error:fold")
			} else {
				g.record(state, owner, "ok:"+string(result.Capability))
			}

			owner = g.registry.Parent(owner)
			phase = PhaseRouting
		}
	}
}

// respond commits the final message and closes the turn on the success path.
func (g *Graph) respond(state *core.ConversationState, logger *logging.TurnLogger, start time.Time, message string) (core.TurnResponse, error) {
	state.AddMessage("assistant", message)
	state.Terminal = true
	g.observeTurn(logger, "responded", state.StepCount, start)
	return core.TurnResponse{Message: message, Visualization: state.Visualization}, nil
}

// finish closes the turn on a failure path. The response is user-safe; err
// is the sentinel for the caller and may be nil for internal failures that
// have already been logged.
func (g *Graph) finish(state *core.ConversationState, logger *logging.TurnLogger, start time.Time, userMessage, outcome string, err error) (core.TurnResponse, error) {
	state.AddMessage("assistant", userMessage)
	state.Terminal = true
	g.observeTurn(logger, outcome, state.StepCount, start)
	return core.TurnResponse{Message: userMessage}, err
}

func (g *Graph) record(state *core.ConversationState, owner core.Owner, action string) {
	if g.recorder == nil {
		return
	}
	g.recorder.Record(state.SessionID, trace.Entry{
		Step:          state.StepCount,
		Owner:         owner.String(),
		Action:        action,
		Timestamp:     time.Now().UTC(),
		Visualization: state.Visualization != nil,
	})
}

func (g *Graph) observeTool(logger *logging.TurnLogger, result core.ToolResult, dur time.Duration) {
	status, cause := "ok", ""
	if !result.OK() {
		status, cause = string(result.Failure.Kind), result.Failure.Cause
	}
	logger.LogToolCall(string(result.Capability), dur, result.OK(), cause)
	if g.metrics != nil {
		g.metrics.ToolInvocations.WithLabelValues(string(result.Capability), status).Inc()
	}
}

func (g *Graph) observeTurn(logger *logging.TurnLogger, outcome string, steps int, start time.Time) {
	logger.LogTurn(outcome, steps, time.Since(start))
	if g.metrics != nil {
		g.metrics.TurnsTotal.WithLabelValues(outcome).Inc()
		g.metrics.TurnSteps.Observe(float64(steps))
	}
}
