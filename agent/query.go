package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
	"github.com/campusops/adminflow/tool"
)

// QuerySpecialist composes one read-only SQL query from its instruction
// and runs it through the query adapter. The schema description is fixed
// at construction; the specialist sees nothing of the conversation beyond
// the instruction it was delegated.
type QuerySpecialist struct {
	composer model.Composer
	adapter  tool.Adapter
	schema   string
}

// NewQuerySpecialist creates the query specialist. schema is the prompt
// description of the queryable tables.
func NewQuerySpecialist(composer model.Composer, adapter tool.Adapter, schema string) *QuerySpecialist {
	return &QuerySpecialist{composer: composer, adapter: adapter, schema: schema}
}

// Owner implements Specialist.
func (s *QuerySpecialist) Owner() core.Owner {
	return core.SpecialistOwner(core.CapabilityQuery)
}

// Execute implements Specialist.
func (s *QuerySpecialist) Execute(ctx context.Context, instruction core.Instruction) core.ToolResult {
	sql, err := s.composer.Compose(ctx, model.ComposeRequest{
		Purpose:     model.PurposeSQL,
		Instruction: instruction.Text,
		Context:     map[string]string{"schema": s.schema},
	})
	if err != nil {
		return composeFailed(core.CapabilityQuery, err)
	}
	sql = stripFences(sql)
	if strings.TrimSpace(sql) == "" {
		return composeFailed(core.CapabilityQuery, errors.New("empty query"))
	}
	return s.adapter.Invoke(ctx, tool.QueryRequest{SQL: sql})
}

// Fold implements Specialist.
func (s *QuerySpecialist) Fold(state *core.ConversationState, result core.ToolResult) error {
	state.Rows = result.Rows
	state.Columns = result.Columns
	return nil
}
