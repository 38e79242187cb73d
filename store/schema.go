package store

import (
	"fmt"
	"sort"
	"strings"
)

// tableColumns is the canonical table -> column catalog of the university
// schema. It feeds both the prompt context handed to the composer and the
// default write allow-list, so the two can never drift apart.
var tableColumns = map[string][]string{
	"students":      {"id", "first_name", "last_name", "email", "program_id", "enrollment_year"},
	"programs":      {"id", "name", "department", "degree_level"},
	"courses":       {"id", "code", "title", "credits", "department"},
	"enrollments":   {"id", "student_id", "course_id", "term", "grade"},
	"financial_aids": {"id", "student_id", "aid_type", "amount", "year"},
}

// Tables returns a copy of the canonical table -> column catalog.
func Tables() map[string][]string {
	out := make(map[string][]string, len(tableColumns))
	for t, cols := range tableColumns {
		out[t] = append([]string(nil), cols...)
	}
	return out
}

// SchemaDescription renders the catalog as CREATE TABLE style text for
// composer prompt context. Output is sorted so prompts stay deterministic.
func SchemaDescription() string {
	names := make([]string, 0, len(tableColumns))
	for t := range tableColumns {
		names = append(names, t)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, t := range names {
		fmt.Fprintf(&sb, "TABLE %s (%s)\n", t, strings.Join(tableColumns[t], ", "))
	}
	return sb.String()
}
