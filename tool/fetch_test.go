package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/core"
)

// slowConnector blocks until its context is done.
type slowConnector struct{}

func (slowConnector) System() string { return "slow" }

func (slowConnector) Fetch(ctx context.Context, _ string, _ map[string]string) (core.Rows, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFetchAdapterReturnsRecordSet(t *testing.T) {
	a := NewFetchAdapter(time.Second, NewMockSIS())

	result := a.Invoke(context.Background(), FetchRequest{System: "sis", Endpoint: "enrollment"})

	require.True(t, result.OK(), "failure: %v", result.Failure)
	require.NotNil(t, result.Records)
	assert.Equal(t, "sis", result.Records.System)
	assert.Equal(t, "enrollment", result.Records.Endpoint)
	assert.NotEmpty(t, result.Records.Records)
}

func TestFetchAdapterRejectsUnknownSystem(t *testing.T) {
	a := NewFetchAdapter(time.Second, NewMockLMS())

	result := a.Invoke(context.Background(), FetchRequest{System: "erp", Endpoint: "anything"})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureRejected, result.Failure.Kind)
}

func TestFetchAdapterUnknownEndpointIsUnavailable(t *testing.T) {
	a := NewFetchAdapter(time.Second, NewMockCRM())

	result := a.Invoke(context.Background(), FetchRequest{System: "crm", Endpoint: "payroll"})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureUnavailable, result.Failure.Kind)
}

func TestFetchAdapterEnforcesTimeout(t *testing.T) {
	a := NewFetchAdapter(20*time.Millisecond, slowConnector{})

	start := time.Now()
	result := a.Invoke(context.Background(), FetchRequest{System: "slow", Endpoint: "x"})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureTimeout, result.Failure.Kind)
	assert.Less(t, time.Since(start), time.Second, "timeout must bound the call")
}

func TestMockConnectorsCoverCatalog(t *testing.T) {
	catalog := EndpointCatalog()
	for _, sys := range []string{"lms", "sis", "crm"} {
		assert.Contains(t, catalog, sys)
	}
}
