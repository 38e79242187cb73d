package tool

import (
	"context"
	"fmt"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/store"
)

// maxSyntheticBatch caps one generation request; larger batches belong in a
// seed script, not a conversation turn.
const maxSyntheticBatch = 100

// SyntheticAdapter generates plausible records for a target table and
// stores them through the same allow-list path as ordinary writes, so the
// generator can never reach a table staff cannot write to.
type SyntheticAdapter struct {
	store *store.Store
	allow AllowList
}

// NewSyntheticAdapter wraps st behind the synthetic capability.
func NewSyntheticAdapter(st *store.Store, allow AllowList) *SyntheticAdapter {
	if allow == nil {
		allow = DefaultAllowList()
	}
	return &SyntheticAdapter{store: st, allow: allow}
}

// Capability implements Adapter.
func (a *SyntheticAdapter) Capability() core.Capability { return core.CapabilitySynthetic }

// Invoke implements Adapter.
func (a *SyntheticAdapter) Invoke(ctx context.Context, req Request) core.ToolResult {
	sr, ok := req.(SyntheticRequest)
	if !ok {
		return badRequest(core.CapabilitySynthetic)
	}
	if sr.Count <= 0 || sr.Count > maxSyntheticBatch {
		return core.Failed(core.CapabilitySynthetic, core.FailureRejected,
			fmt.Sprintf("count must be between 1 and %d, got %d", maxSyntheticBatch, sr.Count))
	}
	gen, ok := generators[sr.Table]
	if !ok {
		return core.Failed(core.CapabilitySynthetic, core.FailureRejected,
			fmt.Sprintf("no generator for table %q", sr.Table))
	}

	inserted := 0
	for i := 0; i < sr.Count; i++ {
		values := gen(i)
		columns := make([]string, 0, len(values))
		for c := range values {
			columns = append(columns, c)
		}
		if err := a.allow.Validate(sr.Table, columns); err != nil {
			return core.Failed(core.CapabilitySynthetic, core.FailureRejected, err.Error())
		}
		if _, err := a.store.Insert(ctx, sr.Table, values); err != nil {
			return core.Failed(core.CapabilitySynthetic, core.FailureInternal,
				fmt.Sprintf("after %d record(s): %v", inserted, err))
		}
		inserted++
	}

	return core.OkConfirmation(core.CapabilitySynthetic,
		fmt.Sprintf("generated %d synthetic record(s) in %s", inserted, sr.Table))
}

var firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Radia", "Ken", "Frances", "Dennis"}
var lastNames = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Perlman", "Thompson", "Allen", "Ritchie"}
var aidTypes = []string{"grant", "loan", "scholarship", "work_study"}

// generators produce deterministic, index-keyed records per table so tests
// can assert on exact values.
var generators = map[string]func(i int) map[string]any{
	"students": func(i int) map[string]any {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
		return map[string]any{
			"first_name":      first,
			"last_name":       last,
			"email":           fmt.Sprintf("%s.%s.%d@campus.example", first, last, i),
			"program_id":      int64(i%4 + 1),
			"enrollment_year": int64(2022 + i%4),
		}
	},
	"financial_aids": func(i int) map[string]any {
		return map[string]any{
			"student_id": int64(i + 1),
			"aid_type":   aidTypes[i%len(aidTypes)],
			"amount":     float64(1500 + 250*(i%10)),
			"year":       int64(2025),
		}
	},
	"enrollments": func(i int) map[string]any {
		return map[string]any{
			"student_id": int64(i + 1),
			"course_id":  int64(i%6 + 1),
			"term":       "2026S",
			"grade":      "",
		}
	},
}
