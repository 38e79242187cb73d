package agent

import (
	"context"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
	"github.com/campusops/adminflow/tool"
)

// writeSpec is the composition contract for a mutation step.
type writeSpec struct {
	Operation string         `json:"operation"`
	Table     string         `json:"table"`
	Values    map[string]any `json:"values"`
	Where     map[string]any `json:"where"`
}

// WriteSpecialist composes one structured mutation and runs it through the
// write adapter, which enforces the allow-list. Free-form SQL never leaves
// this specialist; only column/value pairs do.
type WriteSpecialist struct {
	composer model.Composer
	adapter  tool.Adapter
	schema   string
}

// NewWriteSpecialist creates the write specialist.
func NewWriteSpecialist(composer model.Composer, adapter tool.Adapter, schema string) *WriteSpecialist {
	return &WriteSpecialist{composer: composer, adapter: adapter, schema: schema}
}

// Owner implements Specialist.
func (s *WriteSpecialist) Owner() core.Owner {
	return core.SpecialistOwner(core.CapabilityWrite)
}

// Execute implements Specialist.
func (s *WriteSpecialist) Execute(ctx context.Context, instruction core.Instruction) core.ToolResult {
	var spec writeSpec
	if err := composeSpec(ctx, s.composer, model.ComposeRequest{
		Purpose:     model.PurposeWrite,
		Instruction: instruction.Text,
		Context:     map[string]string{"schema": s.schema},
	}, &spec); err != nil {
		return composeFailed(core.CapabilityWrite, err)
	}
	return s.adapter.Invoke(ctx, tool.WriteRequest{
		Operation: spec.Operation,
		Table:     spec.Table,
		Values:    spec.Values,
		Where:     spec.Where,
	})
}

// Fold implements Specialist.
func (s *WriteSpecialist) Fold(state *core.ConversationState, result core.ToolResult) error {
	state.Confirmation = result.Confirmation
	return nil
}
