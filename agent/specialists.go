package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
)

// composeSpec asks the composer for a tool parameter payload and decodes
// the JSON it returns into spec. Code fences around the payload are
// tolerated; anything else that fails to decode is the caller's error to
// classify.
func composeSpec(ctx context.Context, composer model.Composer, req model.ComposeRequest, spec any) error {
	out, err := composer.Compose(ctx, req)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(stripFences(out)), spec)
}

// stripFences removes a surrounding Markdown code fence, with or without a
// language tag, and trims whitespace. Models wrap structured output in
// fences often enough that every composition consumer needs this.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line.
		if !strings.ContainsAny(s[:i], "{}[]") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// composeFailed classifies a composition or decode error. The model never
// reached the tool, so the failure is internal to this process.
func composeFailed(c core.Capability, err error) core.ToolResult {
	return core.Failed(c, core.FailureInternal, "composing tool parameters: "+err.Error())
}
