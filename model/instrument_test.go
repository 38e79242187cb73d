package model

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/metrics"
)

type erroringModel struct{}

func (erroringModel) Classify(context.Context, []core.Message, string) (Classification, error) {
	return Classification{}, errors.New("model down")
}

func (erroringModel) Compose(context.Context, ComposeRequest) (string, error) {
	return "", errors.New("model down")
}

func TestInstrumentedCountsCalls(t *testing.T) {
	c := metrics.NewTestCollector()
	m := NewInstrumented(NewStaticModel(), c, nil)

	_, err := m.Classify(context.Background(), nil, "how many students?")
	require.NoError(t, err)
	out, err := m.Compose(context.Background(), ComposeRequest{Purpose: PurposeSQL, Instruction: "count students"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ModelCalls.WithLabelValues("classify", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ModelCalls.WithLabelValues("compose:sql", "ok")))
}

func TestInstrumentedCountsFailures(t *testing.T) {
	c := metrics.NewTestCollector()
	m := NewInstrumented(erroringModel{}, c, nil)

	_, err := m.Classify(context.Background(), nil, "anything")
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ModelCalls.WithLabelValues("classify", "error")))
}

func TestInstrumentedPassesResultsThrough(t *testing.T) {
	m := NewInstrumented(NewStaticModel(), nil, nil)

	cls, err := m.Classify(context.Background(), nil, "How many students enrolled this year?")
	require.NoError(t, err)
	assert.Equal(t, core.DomainAnalysis, cls.Domain)
}
