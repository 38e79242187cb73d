package agent

import (
	"context"
	"errors"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
	"github.com/campusops/adminflow/tool"
)

// fetchSpec is the composition contract for an external fetch step.
type fetchSpec struct {
	System   string            `json:"system"`
	Endpoint string            `json:"endpoint"`
	Params   map[string]string `json:"params"`
}

// FetchSpecialist resolves its instruction to a concrete external system
// endpoint and calls it through the fetch adapter. The endpoint catalog is
// fixed at construction.
type FetchSpecialist struct {
	composer model.Composer
	adapter  tool.Adapter
	catalog  string
}

// NewFetchSpecialist creates the fetch specialist. catalog is the prompt
// description of the reachable systems and endpoints.
func NewFetchSpecialist(composer model.Composer, adapter tool.Adapter, catalog string) *FetchSpecialist {
	return &FetchSpecialist{composer: composer, adapter: adapter, catalog: catalog}
}

// Owner implements Specialist.
func (s *FetchSpecialist) Owner() core.Owner {
	return core.SpecialistOwner(core.CapabilityFetch)
}

// Execute implements Specialist.
func (s *FetchSpecialist) Execute(ctx context.Context, instruction core.Instruction) core.ToolResult {
	var spec fetchSpec
	if err := composeSpec(ctx, s.composer, model.ComposeRequest{
		Purpose:     model.PurposeFetch,
		Instruction: instruction.Text,
		Context:     map[string]string{"endpoints": s.catalog},
	}, &spec); err != nil {
		return composeFailed(core.CapabilityFetch, err)
	}
	if spec.System == "" || spec.Endpoint == "" {
		return composeFailed(core.CapabilityFetch, errors.New("spec names no system or endpoint"))
	}
	return s.adapter.Invoke(ctx, tool.FetchRequest{
		System:   spec.System,
		Endpoint: spec.Endpoint,
		Params:   spec.Params,
	})
}

// Fold implements Specialist.
func (s *FetchSpecialist) Fold(state *core.ConversationState, result core.ToolResult) error {
	state.Records = result.Records
	return nil
}
