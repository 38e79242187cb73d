// Package tool implements the capability adapters: uniform wrappers around
// the concrete actions the engine can take (run a read or write query,
// render a chart, send a message, fetch from an external system, generate
// synthetic records). Adapters are the only components that cross the
// process boundary to the database, mail transport or external clients, and
// each enforces its own safety policy before doing so. They carry no
// orchestration knowledge: every invocation maps one request to one
// classified ToolResult.
package tool

import (
	"context"

	"github.com/campusops/adminflow/core"
)

// Request is a capability-specific invocation payload. The concrete types
// below are the only implementations; adapters reject any other shape as an
// internal failure rather than panicking.
type Request interface {
	Capability() core.Capability
}

// Adapter is the uniform capability interface. Implementations must be safe
// for concurrent use across sessions; shared resources (the database pool)
// provide their own synchronization.
type Adapter interface {
	Capability() core.Capability
	Invoke(ctx context.Context, req Request) core.ToolResult
}

// QueryRequest executes a read-only SQL query.
type QueryRequest struct {
	SQL string
}

// Capability implements Request.
func (QueryRequest) Capability() core.Capability { return core.CapabilityQuery }

// WriteRequest performs one allow-listed mutation. Values and Where carry
// already-composed column/value pairs; no free-form SQL crosses this
// boundary.
type WriteRequest struct {
	Operation string // "insert" or "update"
	Table     string
	Values    map[string]any
	Where     map[string]any
}

// Capability implements Request.
func (WriteRequest) Capability() core.Capability { return core.CapabilityWrite }

// ChartRequest renders a chart from rows delivered with the request.
type ChartRequest struct {
	Kind    string // "bar", "line" or "pie"
	Title   string
	XField  string // label column; empty picks the first string column
	YField  string // value column; empty picks the first numeric column
	Rows    core.Rows
	Columns []string
}

// Capability implements Request.
func (ChartRequest) Capability() core.Capability { return core.CapabilityChart }

// MailRequest sends one outbound message.
type MailRequest struct {
	Recipients []string
	Subject    string
	Body       string
}

// Capability implements Request.
func (MailRequest) Capability() core.Capability { return core.CapabilityMail }

// FetchRequest retrieves a record set from an external campus system.
type FetchRequest struct {
	System   string // "lms", "sis" or "crm"
	Endpoint string
	Params   map[string]string
}

// Capability implements Request.
func (FetchRequest) Capability() core.Capability { return core.CapabilityFetch }

// SyntheticRequest generates and stores a batch of synthetic records.
type SyntheticRequest struct {
	Table string
	Count int
}

// Capability implements Request.
func (SyntheticRequest) Capability() core.Capability { return core.CapabilitySynthetic }

// badRequest is the shared guard for a mistyped request payload.
func badRequest(c core.Capability) core.ToolResult {
	return core.Failed(c, core.FailureInternal, "request payload does not match capability")
}
