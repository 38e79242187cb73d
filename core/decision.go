package core

// DecisionKind discriminates the three shapes a routing decision can take.
type DecisionKind int

const (
	// DecisionDelegate hands control to another owner with an instruction.
	DecisionDelegate DecisionKind = iota
	// DecisionRespond ends the turn with a final message.
	DecisionRespond
	// DecisionFail ends the turn with a classified failure reason.
	DecisionFail
)

// Instruction is the payload a delegation carries to its target. Specialists
// may inspect nothing of the conversation beyond this value, so a delegating
// coordinator must copy every prerequisite the specialist needs (for the
// chart specialist, the rows to plot) into it.
type Instruction struct {
	// Text is the natural-language task for the target.
	Text string
	// Rows carries tabular prerequisites produced by an earlier step.
	Rows Rows
	// Columns preserves the column order of Rows.
	Columns []string
}

// RoutingDecision is the result of asking a director or coordinator for the
// next step. Exactly one shape is populated; the constructors below are the
// only supported way to build one.
type RoutingDecision struct {
	Kind        DecisionKind
	Target      Owner       // delegate only
	Instruction Instruction // delegate only
	Message     string      // respond only
	Reason      string      // fail only
}

// Delegate builds a decision handing control to target.
func Delegate(target Owner, instruction Instruction) RoutingDecision {
	return RoutingDecision{Kind: DecisionDelegate, Target: target, Instruction: instruction}
}

// Respond builds a decision ending the turn with a final message.
func Respond(message string) RoutingDecision {
	return RoutingDecision{Kind: DecisionRespond, Message: message}
}

// Fail builds a decision ending the turn with a failure reason. The reason
// is internal; the graph maps it to a user-safe message.
func Fail(reason string) RoutingDecision {
	return RoutingDecision{Kind: DecisionFail, Reason: reason}
}

// Action renders a short trace-stable description of the decision.
func (d RoutingDecision) Action() string {
	switch d.Kind {
	case DecisionDelegate:
		return "delegate:" + d.Target.String()
	case DecisionRespond:
		return "respond"
	case DecisionFail:
		return "fail:" + d.Reason
	default:
		return "unknown"
	}
}
