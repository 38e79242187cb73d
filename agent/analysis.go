package agent

import (
	"context"
	"strings"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/model"
)

// chartCues are the request phrasings that make the analysis coordinator
// schedule a chart step after the query.
var chartCues = []string{"chart", "plot", "graph", "visualiz", "visualis", "pie", "histogram"}

// AnalysisCoordinator sequences the read-only reporting domain: run a
// query, optionally chart the result, then summarize. It owns the query
// and chart specialists.
type AnalysisCoordinator struct {
	composer model.Composer
	logger   logging.Logger
}

// NewAnalysisCoordinator creates the analysis domain coordinator. The
// composer is used only for the final summary.
func NewAnalysisCoordinator(composer model.Composer, logger logging.Logger) *AnalysisCoordinator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &AnalysisCoordinator{composer: composer, logger: logger}
}

// Owner implements Decider.
func (c *AnalysisCoordinator) Owner() core.Owner {
	return core.CoordinatorOwner(core.DomainAnalysis)
}

// Decide implements Decider. The sequencing is state-driven rather than
// remembered: no rows yet means query, rows plus a chart cue and no
// visualization means chart, anything else means summarize. A cleared
// transient failure therefore re-enters the same sequence and lands on
// the step that failed.
func (c *AnalysisCoordinator) Decide(ctx context.Context, state *core.ConversationState, instruction core.Instruction) (core.RoutingDecision, error) {
	if retry, explanation := retryOrExplain(state); !retry && explanation != "" {
		return core.Respond(explanation), nil
	}

	if !state.HasRows() {
		return core.Delegate(
			core.SpecialistOwner(core.CapabilityQuery),
			core.Instruction{Text: instruction.Text},
		), nil
	}

	if state.Visualization == nil && wantsChart(instruction.Text) {
		return core.Delegate(
			core.SpecialistOwner(core.CapabilityChart),
			core.Instruction{Text: instruction.Text, Rows: state.Rows, Columns: state.Columns},
		), nil
	}

	return core.Respond(composeSummary(ctx, c.composer, state, c.logger)), nil
}

func wantsChart(text string) bool {
	lower := strings.ToLower(text)
	for _, cue := range chartCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
