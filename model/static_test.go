package model

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/core"
)

func TestStaticClassifyKeywords(t *testing.T) {
	m := NewStaticModel()
	tests := []struct {
		message string
		domain  core.Domain
	}{
		{"How many students enrolled this year?", core.DomainAnalysis},
		{"Plot a chart of aid by year", core.DomainAnalysis},
		{"Send a message to the registrar team", core.DomainCommunication},
		{"Register a new student for the fall term", core.DomainDataManagement},
		{"Generate sample financial aid records", core.DomainDataManagement},
		{"Pull the transcript from the SIS", core.DomainIntegration},
	}
	for _, tt := range tests {
		got, err := m.Classify(context.Background(), nil, tt.message)
		require.NoError(t, err)
		assert.Equal(t, tt.domain, got.Domain, "message %q", tt.message)
		assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	}
}

func TestStaticClassifyConversational(t *testing.T) {
	m := NewStaticModel()
	got, err := m.Classify(context.Background(), nil, "Hello there")
	require.NoError(t, err)
	assert.Equal(t, core.DomainNone, got.Domain)
	assert.NotEmpty(t, got.Reply)
}

func TestStaticClassifyAmbiguous(t *testing.T) {
	m := NewStaticModel()
	got, err := m.Classify(context.Background(), nil, "hmm")
	require.NoError(t, err)
	assert.Equal(t, core.DomainNone, got.Domain)
	assert.Zero(t, got.Confidence)
}

func TestStaticComposeRegisteredBeatsDefault(t *testing.T) {
	m := NewStaticModel().
		AddResponse(PurposeSQL, "per program", "SELECT 1").
		AddResponse(PurposeSQL, "", "SELECT 2")

	out, err := m.Compose(context.Background(), ComposeRequest{Purpose: PurposeSQL, Instruction: "students per program"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", out)

	out, err = m.Compose(context.Background(), ComposeRequest{Purpose: PurposeSQL, Instruction: "anything else"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", out)
}

func TestStaticComposeDefaultsAreValidContracts(t *testing.T) {
	m := NewStaticModel()
	for _, p := range []Purpose{PurposeSQL, PurposeChart, PurposeEmail, PurposeWrite, PurposeFetch, PurposeSynthetic} {
		out, err := m.Compose(context.Background(), ComposeRequest{Purpose: p, Instruction: "x"})
		require.NoError(t, err)
		assert.NotEmpty(t, out, "purpose %s", p)
	}
}

func TestStaticComposeIsDeterministic(t *testing.T) {
	m := NewStaticModel()
	req := ComposeRequest{Purpose: PurposeChart, Instruction: `chart "aid" by year`}
	first, err := m.Compose(context.Background(), req)
	require.NoError(t, err)
	second, err := m.Compose(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComposePromptAppendsContextInStableOrder(t *testing.T) {
	req := ComposeRequest{
		Purpose:     PurposeSQL,
		Instruction: "count students",
		Context:     map[string]string{"schema": "TABLE students (id)", "hint": "limit 25"},
	}
	prompt := ComposePrompt(req)
	assert.True(t, strings.Index(prompt, "[hint]") < strings.Index(prompt, "[schema]"),
		"context sections must be sorted by key")
	assert.Contains(t, prompt, "TABLE students (id)")
}
