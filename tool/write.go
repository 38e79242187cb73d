package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/store"
)

// AllowList maps permitted tables to their permitted columns. Validation
// happens before any mutation: a request naming an unknown table or column
// is rejected whole, never partially applied.
type AllowList map[string][]string

// DefaultAllowList derives the write allow-list from the canonical store
// catalog, minus the generated id column.
func DefaultAllowList() AllowList {
	out := AllowList{}
	for table, cols := range store.Tables() {
		kept := make([]string, 0, len(cols))
		for _, c := range cols {
			if c != "id" {
				kept = append(kept, c)
			}
		}
		out[table] = kept
	}
	return out
}

// Validate checks a table and the referenced columns against the list.
func (l AllowList) Validate(table string, columns []string) error {
	allowed, ok := l[table]
	if !ok {
		names := make([]string, 0, len(l))
		for t := range l {
			names = append(names, t)
		}
		sort.Strings(names)
		return fmt.Errorf("table %q is not writable; writable tables: %s", table, strings.Join(names, ", "))
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		allowedSet[c] = true
	}
	for _, c := range columns {
		if !allowedSet[c] {
			return fmt.Errorf("column %q is not writable on table %q", c, table)
		}
	}
	return nil
}

// WriteAdapter performs allow-listed inserts and updates.
type WriteAdapter struct {
	store *store.Store
	allow AllowList
}

// NewWriteAdapter wraps st behind the write capability guarded by allow.
func NewWriteAdapter(st *store.Store, allow AllowList) *WriteAdapter {
	if allow == nil {
		allow = DefaultAllowList()
	}
	return &WriteAdapter{store: st, allow: allow}
}

// Capability implements Adapter.
func (a *WriteAdapter) Capability() core.Capability { return core.CapabilityWrite }

// Invoke implements Adapter.
func (a *WriteAdapter) Invoke(ctx context.Context, req Request) core.ToolResult {
	wr, ok := req.(WriteRequest)
	if !ok {
		return badRequest(core.CapabilityWrite)
	}
	if len(wr.Values) == 0 {
		return core.Failed(core.CapabilityWrite, core.FailureRejected, "mutation carries no values")
	}

	columns := make([]string, 0, len(wr.Values)+len(wr.Where))
	for c := range wr.Values {
		columns = append(columns, c)
	}
	for c := range wr.Where {
		columns = append(columns, c)
	}
	if err := a.allow.Validate(wr.Table, columns); err != nil {
		return core.Failed(core.CapabilityWrite, core.FailureRejected, err.Error())
	}

	var (
		affected int64
		err      error
	)
	switch wr.Operation {
	case "insert":
		affected, err = a.store.Insert(ctx, wr.Table, wr.Values)
	case "update":
		affected, err = a.store.Update(ctx, wr.Table, wr.Values, wr.Where)
	default:
		return core.Failed(core.CapabilityWrite, core.FailureRejected, fmt.Sprintf("unsupported operation %q", wr.Operation))
	}
	if err != nil {
		return core.Failed(core.CapabilityWrite, core.FailureInternal, err.Error())
	}
	return core.OkConfirmation(core.CapabilityWrite,
		fmt.Sprintf("%s on %s affected %d record(s)", wr.Operation, wr.Table, affected))
}
