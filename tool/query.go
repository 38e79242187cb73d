package tool

import (
	"context"
	"errors"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/store"
)

// QueryAdapter executes read-only queries against the university database.
// The SELECT-only guard lives in the store read path; this adapter maps its
// outcomes onto the failure taxonomy.
type QueryAdapter struct {
	store *store.Store
}

// NewQueryAdapter wraps st behind the query capability.
func NewQueryAdapter(st *store.Store) *QueryAdapter {
	return &QueryAdapter{store: st}
}

// Capability implements Adapter.
func (a *QueryAdapter) Capability() core.Capability { return core.CapabilityQuery }

// Invoke implements Adapter.
func (a *QueryAdapter) Invoke(ctx context.Context, req Request) core.ToolResult {
	qr, ok := req.(QueryRequest)
	if !ok {
		return badRequest(core.CapabilityQuery)
	}

	rows, columns, err := a.store.ReadQuery(ctx, qr.SQL)
	switch {
	case err == nil:
		return core.OkRows(core.CapabilityQuery, rows, columns)
	case errors.Is(err, store.ErrNotSelect), errors.Is(err, store.ErrMultiStatement):
		return core.Failed(core.CapabilityQuery, core.FailureRejected, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return core.Failed(core.CapabilityQuery, core.FailureTimeout, "query exceeded its deadline")
	default:
		return core.Failed(core.CapabilityQuery, core.FailureInternal, err.Error())
	}
}
