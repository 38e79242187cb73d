package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusops/adminflow/core"
)

// Connector retrieves record sets from one external campus system. A real
// deployment supplies HTTP-backed implementations; the mock connectors in
// this package cover development and tests.
type Connector interface {
	System() string
	Fetch(ctx context.Context, endpoint string, params map[string]string) (core.Rows, error)
}

// FetchAdapter bridges the fetch capability to the registered connectors,
// applying a hard per-call timeout so a slow external system can never hold
// a turn hostage.
type FetchAdapter struct {
	connectors map[string]Connector
	timeout    time.Duration
}

// NewFetchAdapter registers the given connectors keyed by system name.
func NewFetchAdapter(timeout time.Duration, connectors ...Connector) *FetchAdapter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	byName := make(map[string]Connector, len(connectors))
	for _, c := range connectors {
		byName[c.System()] = c
	}
	return &FetchAdapter{connectors: byName, timeout: timeout}
}

// Capability implements Adapter.
func (a *FetchAdapter) Capability() core.Capability { return core.CapabilityFetch }

// Invoke implements Adapter.
func (a *FetchAdapter) Invoke(ctx context.Context, req Request) core.ToolResult {
	fr, ok := req.(FetchRequest)
	if !ok {
		return badRequest(core.CapabilityFetch)
	}
	conn, ok := a.connectors[fr.System]
	if !ok {
		return core.Failed(core.CapabilityFetch, core.FailureRejected, fmt.Sprintf("unknown external system %q", fr.System))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	rows, err := conn.Fetch(ctx, fr.Endpoint, fr.Params)
	switch {
	case err == nil:
		return core.OkRecords(&core.RecordSet{System: fr.System, Endpoint: fr.Endpoint, Records: rows})
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return core.Failed(core.CapabilityFetch, core.FailureTimeout, fmt.Sprintf("%s/%s exceeded %s", fr.System, fr.Endpoint, a.timeout))
	default:
		return core.Failed(core.CapabilityFetch, core.FailureUnavailable, err.Error())
	}
}
