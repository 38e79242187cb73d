package agent

import (
	"context"
	"errors"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
	"github.com/campusops/adminflow/tool"
)

// mailSpec is the composition contract for an email step.
type mailSpec struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// MailSpecialist drafts one outbound email from its instruction and sends
// it through the mail adapter. Rows carried on the instruction are offered
// to the composer so a draft can reference query results.
type MailSpecialist struct {
	composer model.Composer
	adapter  tool.Adapter
}

// NewMailSpecialist creates the mail specialist.
func NewMailSpecialist(composer model.Composer, adapter tool.Adapter) *MailSpecialist {
	return &MailSpecialist{composer: composer, adapter: adapter}
}

// Owner implements Specialist.
func (s *MailSpecialist) Owner() core.Owner {
	return core.SpecialistOwner(core.CapabilityMail)
}

// Execute implements Specialist.
func (s *MailSpecialist) Execute(ctx context.Context, instruction core.Instruction) core.ToolResult {
	composeCtx := map[string]string{}
	if len(instruction.Rows) > 0 {
		composeCtx["sample"] = rowsPreview(instruction.Rows, instruction.Columns, 5)
	}

	var spec mailSpec
	if err := composeSpec(ctx, s.composer, model.ComposeRequest{
		Purpose:     model.PurposeEmail,
		Instruction: instruction.Text,
		Context:     composeCtx,
	}, &spec); err != nil {
		return composeFailed(core.CapabilityMail, err)
	}
	if len(spec.Recipients) == 0 {
		return core.Failed(core.CapabilityMail, core.FailureRejected, "no recipients in the request")
	}
	if spec.Body == "" {
		return composeFailed(core.CapabilityMail, errors.New("empty message body"))
	}
	return s.adapter.Invoke(ctx, tool.MailRequest{
		Recipients: spec.Recipients,
		Subject:    spec.Subject,
		Body:       spec.Body,
	})
}

// Fold implements Specialist.
func (s *MailSpecialist) Fold(state *core.ConversationState, result core.ToolResult) error {
	state.Confirmation = result.Confirmation
	return nil
}
