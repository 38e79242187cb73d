// Package model defines the language model contract the agent hierarchy
// reasons with: a Classifier that maps a staff request onto a domain and a
// Composer that turns a natural-language instruction into concrete tool
// parameters (SQL text, a chart spec, an email draft). The orchestration
// graph's correctness never depends on actual model behavior, only on these
// contracts; the StaticModel provides deterministic fixtures for tests and
// offline use, and the openai/anthropic subpackages adapt the vendor SDKs.
package model

import (
	"context"

	"github.com/campusops/adminflow/core"
)

// Classification is the outcome of intent classification for one message.
type Classification struct {
	// Domain the request belongs to; DomainNone for conversational
	// messages that need no domain action.
	Domain core.Domain
	// Confidence in [0,1]. The director applies its documented fallback
	// below its threshold rather than blocking.
	Confidence float64
	// Reply carries the direct answer for conversational messages.
	Reply string
}

// Purpose selects the composition task so implementations can pick the
// right prompt and output contract.
type Purpose string

const (
	// PurposeSQL composes a single read-only SQL query.
	PurposeSQL Purpose = "sql"
	// PurposeChart composes a JSON chart spec (kind, title, x, y).
	PurposeChart Purpose = "chart"
	// PurposeEmail composes a JSON email draft (recipients, subject, body).
	PurposeEmail Purpose = "email"
	// PurposeWrite composes a JSON mutation (operation, table, values).
	PurposeWrite Purpose = "write"
	// PurposeFetch composes a JSON external call (system, endpoint, params).
	PurposeFetch Purpose = "fetch"
	// PurposeSynthetic composes a JSON generation request (table, count).
	PurposeSynthetic Purpose = "synthetic"
	// PurposeSummary composes prose summarizing retrieved results.
	PurposeSummary Purpose = "summary"
)

// ComposeRequest carries one composition task.
type ComposeRequest struct {
	Purpose     Purpose
	Instruction string
	// Context supplies auxiliary material such as the database schema or
	// a sample of retrieved rows, keyed by a short name.
	Context map[string]string
}

// Classifier maps a staff request onto a domain.
type Classifier interface {
	Classify(ctx context.Context, history []core.Message, message string) (Classification, error)
}

// Composer produces the concrete parameters for a tool call.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}

// Model combines both reasoning capabilities behind one injection point.
type Model interface {
	Classifier
	Composer
}
