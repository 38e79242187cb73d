package core

import "fmt"

// Rows is the normalized tabular shape every data producing adapter returns.
// Values are restricted to JSON-serializable scalars (string, float64, int64,
// bool, nil); the store layer performs the normalization.
type Rows []map[string]any

// RecordSet is a batch of records fetched from an external campus system.
type RecordSet struct {
	System   string `json:"system"`
	Endpoint string `json:"endpoint"`
	Records  Rows   `json:"records"`
}

// Visualization is the single optional artifact a turn may produce.
type Visualization struct {
	Data      []byte `json:"data"`
	MediaType string `json:"media_type"`
	ChartKind string `json:"chart_kind"`
}

// FailureKind classifies a tool failure for the owning coordinator's
// recovery policy: transient kinds may be retried once, the rest must be
// converted into an explanatory response.
type FailureKind string

const (
	// FailureTimeout marks a call that exceeded its adapter deadline.
	FailureTimeout FailureKind = "timeout"
	// FailureUnavailable marks a downstream system that could not be reached.
	FailureUnavailable FailureKind = "unavailable"
	// FailureRejected marks a request refused by an adapter safety policy
	// (e.g. a write outside the allow-list). Never retried.
	FailureRejected FailureKind = "rejected"
	// FailureInternal marks an unexpected adapter or model error.
	FailureInternal FailureKind = "internal"
)

// Transient reports whether a single bounded retry is a reasonable recovery.
func (k FailureKind) Transient() bool {
	return k == FailureTimeout || k == FailureUnavailable
}

// ToolFailure is the classified error variant of a tool invocation.
type ToolFailure struct {
	Capability Capability
	Kind       FailureKind
	Cause      string
}

// Error implements the error interface.
func (f *ToolFailure) Error() string {
	return fmt.Sprintf("tool failure [%s] in %s: %s", f.Kind, f.Capability, f.Cause)
}

// ToolResult is the output of a single tool adapter invocation. Either
// Failure is set, or exactly the payload fields matching the capability are.
// The graph never inspects the payload; folding it into conversation state
// is the invoking specialist's job.
type ToolResult struct {
	Capability    Capability
	Rows          Rows
	Columns       []string
	Visualization *Visualization
	Confirmation  string
	Records       *RecordSet
	Failure       *ToolFailure
}

// OK reports whether the invocation succeeded.
func (r ToolResult) OK() bool { return r.Failure == nil }

// OkRows builds a successful query result.
func OkRows(c Capability, rows Rows, columns []string) ToolResult {
	return ToolResult{Capability: c, Rows: rows, Columns: columns}
}

// OkVisualization builds a successful chart result.
func OkVisualization(v *Visualization) ToolResult {
	return ToolResult{Capability: CapabilityChart, Visualization: v}
}

// OkConfirmation builds a successful side-effect result.
func OkConfirmation(c Capability, confirmation string) ToolResult {
	return ToolResult{Capability: c, Confirmation: confirmation}
}

// OkRecords builds a successful external fetch result.
func OkRecords(rs *RecordSet) ToolResult {
	return ToolResult{Capability: CapabilityFetch, Records: rs}
}

// Failed builds a classified failure result.
func Failed(c Capability, kind FailureKind, cause string) ToolResult {
	return ToolResult{Capability: c, Failure: &ToolFailure{Capability: c, Kind: kind, Cause: cause}}
}
