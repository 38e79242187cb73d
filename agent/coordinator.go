package agent

import (
	"fmt"

	"github.com/campusops/adminflow/core"
)

// retryOrExplain applies the shared coordinator recovery policy to the
// turn's recorded failure: transient kinds get exactly one retry, every
// other kind (and a second transient failure) becomes an explanatory
// response. When it returns retry=true the failure has been cleared and
// the caller re-delegates through its normal sequencing.
func retryOrExplain(state *core.ConversationState) (retry bool, explanation string) {
	f := state.LastFailure
	if f == nil {
		return false, ""
	}
	if f.Kind.Transient() && state.RetryCount == 0 {
		state.RetryCount++
		state.LastFailure = nil
		return true, ""
	}
	return false, explainFailure(f)
}

// explainFailure renders a user-safe message for a failure the coordinator
// will not recover from. Causes of rejected requests are safe to surface
// verbatim; they come from our own validation, not from downstream systems.
func explainFailure(f *core.ToolFailure) string {
	switch f.Kind {
	case core.FailureRejected:
		return fmt.Sprintf("I can't do that: %s", f.Cause)
	case core.FailureTimeout:
		return fmt.Sprintf("The %s operation timed out, even after retrying. Please try again in a moment.", f.Capability)
	case core.FailureUnavailable:
		return fmt.Sprintf("The system backing the %s operation is currently unavailable. Please try again later.", f.Capability)
	default:
		return "Something went wrong while handling that request. Please try again."
	}
}
