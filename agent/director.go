package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/model"
)

// confidenceFloor is the lowest classification confidence the director
// acts on. Anything below it takes the safe read-only path instead of
// guessing at a mutating domain.
const confidenceFloor = 0.5

// Director owns the top of the hierarchy. It classifies the user's turn
// into a domain, hands it to that domain's coordinator, and composes the
// final reply when a coordinator climbs back with a finished working set.
type Director struct {
	model    model.Model
	fallback core.Domain
	logger   logging.Logger
}

// DirectorOptions configure the Director.
type DirectorOptions struct {
	// Fallback is the domain used for ambiguous turns. It must be a
	// read-only domain so a misread request can never mutate data.
	Fallback core.Domain
	Logger   logging.Logger
}

// NewDirector creates the root decider backed by the given model.
func NewDirector(m model.Model, optFns ...func(o *DirectorOptions)) *Director {
	opts := DirectorOptions{
		Fallback: core.DomainAnalysis,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Director{model: m, fallback: opts.Fallback, logger: opts.Logger}
}

// Owner implements Decider.
func (d *Director) Owner() core.Owner { return core.DirectorOwner() }

// Decide implements Decider. A turn that already carries a working-set
// result composes the reply immediately, so a re-entrant climb from a
// coordinator never re-classifies the same message.
func (d *Director) Decide(ctx context.Context, state *core.ConversationState, _ core.Instruction) (core.RoutingDecision, error) {
	if state.HasResult() {
		return core.Respond(d.compose(ctx, state)), nil
	}

	message := state.LastUserMessage()
	cls, err := d.model.Classify(ctx, state.Messages, message)
	if err != nil {
		d.logger.Warn("classification failed, using fallback domain", "error", err, "domain", d.fallback)
		cls = model.Classification{Domain: d.fallback, Confidence: 0}
	}

	if cls.Domain == core.DomainNone && cls.Reply != "" {
		return core.Respond(cls.Reply), nil
	}

	domain := cls.Domain
	if domain == core.DomainNone || cls.Confidence < confidenceFloor {
		domain = d.fallback
	}
	return core.Delegate(core.CoordinatorOwner(domain), core.Instruction{Text: message}), nil
}

func (d *Director) compose(ctx context.Context, state *core.ConversationState) string {
	return composeSummary(ctx, d.model, state, d.logger)
}

// composeSummary turns the working set into the final user-facing message.
// A model failure here must not fail the turn, so a deterministic rendering
// of the working set backs every path.
func composeSummary(ctx context.Context, composer model.Composer, state *core.ConversationState, logger logging.Logger) string {
	fallback := renderWorkingSet(state)

	req := model.ComposeRequest{
		Purpose:     model.PurposeSummary,
		Instruction: state.LastUserMessage(),
		Context:     summaryContext(state),
	}
	out, err := composer.Compose(ctx, req)
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			logger.Warn("summary composition failed, using deterministic rendering", "error", err)
		}
		return fallback
	}
	return strings.TrimSpace(out)
}

func summaryContext(state *core.ConversationState) map[string]string {
	c := map[string]string{}
	if state.HasRows() {
		c["row_count"] = strconv.Itoa(len(state.Rows))
		c["sample"] = rowsPreview(state.Rows, state.Columns, 5)
	}
	if state.Records != nil && len(state.Records.Records) > 0 {
		c["detail"] = recordsPreview(state.Records)
	}
	if state.Confirmation != "" {
		c["detail"] = state.Confirmation
	}
	return c
}

// renderWorkingSet produces a plain-text reply from whatever the turn
// accumulated, with no model in the loop.
func renderWorkingSet(state *core.ConversationState) string {
	var b strings.Builder
	switch {
	case state.Confirmation != "":
		b.WriteString(state.Confirmation)
	case state.Records != nil && len(state.Records.Records) > 0:
		b.WriteString(recordsPreview(state.Records))
	case state.HasRows():
		fmt.Fprintf(&b, "Found %d record(s).", len(state.Rows))
		if preview := rowsPreview(state.Rows, state.Columns, 5); preview != "" {
			b.WriteString("\n")
			b.WriteString(preview)
		}
	default:
		b.WriteString("The request completed, but produced no records.")
	}
	if state.Visualization != nil {
		fmt.Fprintf(&b, "\nA %s chart of the results is attached.", state.Visualization.ChartKind)
	}
	return b.String()
}

// rowsPreview renders at most limit rows as aligned text. Column order
// follows the query's column list so previews are stable across runs.
func rowsPreview(rows core.Rows, columns []string, limit int) string {
	if len(rows) == 0 {
		return ""
	}
	if len(columns) == 0 {
		return fmt.Sprintf("%d row(s)", len(rows))
	}
	var b strings.Builder
	b.WriteString(strings.Join(columns, " | "))
	n := len(rows)
	if n > limit {
		n = limit
	}
	for _, row := range rows[:n] {
		b.WriteString("\n")
		parts := make([]string, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, fmt.Sprintf("%v", row[col]))
		}
		b.WriteString(strings.Join(parts, " | "))
	}
	if len(rows) > n {
		fmt.Fprintf(&b, "\n... and %d more", len(rows)-n)
	}
	return b.String()
}

func recordsPreview(rs *core.RecordSet) string {
	if rs == nil {
		return ""
	}
	sample := rs.Records
	if len(sample) > 5 {
		sample = sample[:5]
	}
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return fmt.Sprintf("Retrieved %d record(s) from %s/%s.", len(rs.Records), rs.System, rs.Endpoint)
	}
	return fmt.Sprintf("Retrieved %d record(s) from %s/%s:\n%s", len(rs.Records), rs.System, rs.Endpoint, string(data))
}
