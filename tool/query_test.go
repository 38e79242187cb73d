package tool

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	return st
}

func TestQueryAdapterReturnsRows(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.DB().Create(&store.Student{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@q.example", EnrollmentYear: 2026,
	}).Error)

	a := NewQueryAdapter(st)
	result := a.Invoke(context.Background(), QueryRequest{SQL: "SELECT first_name FROM students"})

	require.True(t, result.OK(), "failure: %v", result.Failure)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Ada", result.Rows[0]["first_name"])
	assert.Equal(t, []string{"first_name"}, result.Columns)
}

func TestQueryAdapterRejectsMutations(t *testing.T) {
	a := NewQueryAdapter(openTestStore(t))
	result := a.Invoke(context.Background(), QueryRequest{SQL: "DELETE FROM students"})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureRejected, result.Failure.Kind)
}

func TestQueryAdapterRejectsChainedStatements(t *testing.T) {
	a := NewQueryAdapter(openTestStore(t))
	result := a.Invoke(context.Background(), QueryRequest{SQL: "SELECT 1; DELETE FROM students"})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureRejected, result.Failure.Kind)
}

func TestQueryAdapterClassifiesBadSQLAsInternal(t *testing.T) {
	a := NewQueryAdapter(openTestStore(t))
	result := a.Invoke(context.Background(), QueryRequest{SQL: "SELECT * FROM no_such_table"})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureInternal, result.Failure.Kind)
}

func TestQueryAdapterRejectsWrongPayload(t *testing.T) {
	a := NewQueryAdapter(openTestStore(t))
	result := a.Invoke(context.Background(), MailRequest{})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureInternal, result.Failure.Kind)
}
