package agent

import (
	"context"
	"errors"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
	"github.com/campusops/adminflow/tool"
)

// syntheticSpec is the composition contract for a batch generation step.
type syntheticSpec struct {
	Table string `json:"table"`
	Count int    `json:"count"`
}

// SyntheticSpecialist resolves its instruction to a table and batch size
// and delegates generation to the synthetic adapter, which owns the batch
// ceiling and the allow-list check.
type SyntheticSpecialist struct {
	composer model.Composer
	adapter  tool.Adapter
	schema   string
}

// NewSyntheticSpecialist creates the synthetic data specialist.
func NewSyntheticSpecialist(composer model.Composer, adapter tool.Adapter, schema string) *SyntheticSpecialist {
	return &SyntheticSpecialist{composer: composer, adapter: adapter, schema: schema}
}

// Owner implements Specialist.
func (s *SyntheticSpecialist) Owner() core.Owner {
	return core.SpecialistOwner(core.CapabilitySynthetic)
}

// Execute implements Specialist.
func (s *SyntheticSpecialist) Execute(ctx context.Context, instruction core.Instruction) core.ToolResult {
	var spec syntheticSpec
	if err := composeSpec(ctx, s.composer, model.ComposeRequest{
		Purpose:     model.PurposeSynthetic,
		Instruction: instruction.Text,
		Context:     map[string]string{"schema": s.schema},
	}, &spec); err != nil {
		return composeFailed(core.CapabilitySynthetic, err)
	}
	if spec.Table == "" {
		return composeFailed(core.CapabilitySynthetic, errors.New("spec names no table"))
	}
	return s.adapter.Invoke(ctx, tool.SyntheticRequest{Table: spec.Table, Count: spec.Count})
}

// Fold implements Specialist.
func (s *SyntheticSpecialist) Fold(state *core.ConversationState, result core.ToolResult) error {
	state.Confirmation = result.Confirmation
	return nil
}
