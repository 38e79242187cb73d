package agent

import (
	"context"
	"strings"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
	"github.com/campusops/adminflow/tool"
)

// chartSpec is the composition contract for a chart step.
type chartSpec struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	X     string `json:"x"`
	Y     string `json:"y"`
}

// ChartSpecialist renders a chart from the rows its instruction carries.
// A malformed spec from the model degrades to a default bar chart rather
// than failing the step; the adapter's series auto-detection covers the
// missing fields.
type ChartSpecialist struct {
	composer model.Composer
	adapter  tool.Adapter
}

// NewChartSpecialist creates the chart specialist.
func NewChartSpecialist(composer model.Composer, adapter tool.Adapter) *ChartSpecialist {
	return &ChartSpecialist{composer: composer, adapter: adapter}
}

// Owner implements Specialist.
func (s *ChartSpecialist) Owner() core.Owner {
	return core.SpecialistOwner(core.CapabilityChart)
}

// Execute implements Specialist.
func (s *ChartSpecialist) Execute(ctx context.Context, instruction core.Instruction) core.ToolResult {
	spec := chartSpec{Kind: "bar"}
	err := composeSpec(ctx, s.composer, model.ComposeRequest{
		Purpose:     model.PurposeChart,
		Instruction: instruction.Text,
		Context:     map[string]string{"columns": strings.Join(instruction.Columns, ", ")},
	}, &spec)
	if err != nil {
		spec = chartSpec{Kind: "bar"}
	}
	return s.adapter.Invoke(ctx, tool.ChartRequest{
		Kind:    spec.Kind,
		Title:   spec.Title,
		XField:  spec.X,
		YField:  spec.Y,
		Rows:    instruction.Rows,
		Columns: instruction.Columns,
	})
}

// Fold implements Specialist. Overwriting keeps at most one visualization
// per turn regardless of how many chart steps ran.
func (s *ChartSpecialist) Fold(state *core.ConversationState, result core.ToolResult) error {
	state.Visualization = result.Visualization
	return nil
}
