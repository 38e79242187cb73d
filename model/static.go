package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusops/adminflow/core"
)

// StaticModel is a deterministic, rule-based Model for tests, examples and
// offline operation. Classification uses fixed keyword sets; composition
// returns registered canned outputs (matched by purpose plus instruction
// substring) falling back to minimal valid defaults. Given identical input
// it always produces identical output, which the turn-level tests rely on.
type StaticModel struct {
	responses []staticResponse
}

type staticResponse struct {
	purpose Purpose
	match   string
	out     string
}

// NewStaticModel constructs an empty StaticModel.
func NewStaticModel() *StaticModel {
	return &StaticModel{}
}

// AddResponse registers a canned composition for a purpose. The first
// registration whose match is a substring of the instruction wins; an empty
// match matches every instruction of that purpose.
func (m *StaticModel) AddResponse(purpose Purpose, match, out string) *StaticModel {
	m.responses = append(m.responses, staticResponse{purpose: purpose, match: match, out: out})
	return m
}

var conversationalReplies = map[string]string{
	"hello":   "Hello! Ask me about student data, reports, messaging, or campus systems.",
	"hi":      "Hello! Ask me about student data, reports, messaging, or campus systems.",
	"thanks":  "You're welcome.",
	"help":    "I can analyze student data, draw charts, send messages, enter records, and pull data from the LMS, SIS, and CRM.",
	"who are": "I'm the campus administrative assistant.",
}

var domainKeywords = []struct {
	domain core.Domain
	words  []string
}{
	{core.DomainCommunication, []string{"email", "e-mail", "send a message", "notify", "remind"}},
	{core.DomainDataManagement, []string{"insert", "add a", "add new", "update the record", "enter", "register a", "synthetic", "generate sample", "generate test"}},
	{core.DomainIntegration, []string{"lms", "sis", "crm", "canvas", "transcript", "external system", "degree progress", "alumni", "donation"}},
	{core.DomainAnalysis, []string{"how many", "count", "chart", "plot", "graph", "visualiz", "average", "list", "report", "show me", "enrolled", "analy", "financial aid"}},
}

// Classify implements Classifier with deterministic keyword rules.
func (m *StaticModel) Classify(_ context.Context, _ []core.Message, message string) (Classification, error) {
	lower := strings.ToLower(message)

	for trigger, reply := range conversationalReplies {
		if strings.HasPrefix(lower, trigger) {
			return Classification{Domain: core.DomainNone, Confidence: 0.9, Reply: reply}, nil
		}
	}

	for _, dk := range domainKeywords {
		for _, w := range dk.words {
			if strings.Contains(lower, w) {
				return Classification{Domain: dk.domain, Confidence: 0.9}, nil
			}
		}
	}

	// No rule fired: ambiguous, the director's fallback applies.
	return Classification{Domain: core.DomainNone, Confidence: 0}, nil
}

// Compose implements Composer. Registered responses take precedence over
// the per-purpose defaults.
func (m *StaticModel) Compose(_ context.Context, req ComposeRequest) (string, error) {
	for _, r := range m.responses {
		if r.purpose == req.Purpose && (r.match == "" || strings.Contains(req.Instruction, r.match)) {
			return r.out, nil
		}
	}
	return defaultComposition(req), nil
}

func defaultComposition(req ComposeRequest) string {
	switch req.Purpose {
	case PurposeSQL:
		return `SELECT * FROM students LIMIT 25`
	case PurposeChart:
		return `{"kind":"bar","title":"` + jsonEscape(req.Instruction) + `","x":"","y":""}`
	case PurposeEmail:
		return `{"recipients":["staff@campus.example"],"subject":"Campus update","body":"` + jsonEscape(req.Instruction) + `"}`
	case PurposeWrite:
		return `{"operation":"insert","table":"students","values":{}}`
	case PurposeFetch:
		return `{"system":"sis","endpoint":"enrollment","params":{}}`
	case PurposeSynthetic:
		return `{"table":"students","count":5}`
	case PurposeSummary:
		if n, ok := req.Context["row_count"]; ok {
			return fmt.Sprintf("Found %s matching records. %s", n, req.Context["sample"])
		}
		return "Done. " + req.Context["detail"]
	default:
		return ""
	}
}

func jsonEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
