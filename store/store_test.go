package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTest gives each test its own named in-memory database so parallel
// tests never share state.
func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	return st
}

func seedStudents(t *testing.T, st *Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		db := st.DB().Create(&Student{
			FirstName:      fmt.Sprintf("First%d", i),
			LastName:       fmt.Sprintf("Last%d", i),
			Email:          fmt.Sprintf("s%d@%s.example", i, t.Name()),
			ProgramID:      uint(i%2 + 1),
			EnrollmentYear: 2026,
		})
		require.NoError(t, db.Error)
	}
}

func TestReadQueryReturnsNormalizedRows(t *testing.T) {
	st := openTest(t)
	seedStudents(t, st, 3)

	rows, columns, err := st.ReadQuery(context.Background(),
		"SELECT first_name, enrollment_year FROM students ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"first_name", "enrollment_year"}, columns)
	assert.Equal(t, "First0", rows[0]["first_name"])
	assert.Equal(t, int64(2026), rows[0]["enrollment_year"], "integers normalize to int64")
}

func TestReadQueryAllowsLeadingComments(t *testing.T) {
	st := openTest(t)
	seedStudents(t, st, 1)

	rows, _, err := st.ReadQuery(context.Background(),
		"-- count the roster\n  select COUNT(*) AS n FROM students")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["n"])
}

func TestReadQueryRejectsMutations(t *testing.T) {
	st := openTest(t)

	for _, q := range []string{
		"DELETE FROM students",
		"UPDATE students SET email = 'x'",
		"-- harmless looking\nDROP TABLE students",
		"INSERT INTO students (email) VALUES ('x')",
	} {
		_, _, err := st.ReadQuery(context.Background(), q)
		assert.ErrorIs(t, err, ErrNotSelect, "query %q", q)
	}
}

func TestReadQueryRejectsChainedStatements(t *testing.T) {
	st := openTest(t)
	seedStudents(t, st, 3)

	for _, q := range []string{
		"SELECT 1; DELETE FROM students",
		"SELECT 1;DROP TABLE students",
		"SELECT 1; -- trailing comment hides a second statement",
	} {
		_, _, err := st.ReadQuery(context.Background(), q)
		assert.ErrorIs(t, err, ErrMultiStatement, "query %q", q)
	}

	rows, _, err := st.ReadQuery(context.Background(), "SELECT COUNT(*) AS n FROM students")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows[0]["n"], "rejected statements must not reach the database")
}

func TestReadQueryAllowsBenignSemicolons(t *testing.T) {
	st := openTest(t)
	seedStudents(t, st, 1)

	rows, _, err := st.ReadQuery(context.Background(), "SELECT COUNT(*) AS n FROM students;")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows[0]["n"])

	rows, _, err = st.ReadQuery(context.Background(), `SELECT ';' AS s, "first_name" FROM students`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ";", rows[0]["s"])
}

func TestInsertAndUpdate(t *testing.T) {
	st := openTest(t)

	affected, err := st.Insert(context.Background(), "students", map[string]any{
		"first_name":      "Nora",
		"last_name":       "Hale",
		"email":           "nora@campus.example",
		"enrollment_year": 2026,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = st.Update(context.Background(), "students",
		map[string]any{"enrollment_year": 2027},
		map[string]any{"email": "nora@campus.example"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, _, err := st.ReadQuery(context.Background(),
		"SELECT enrollment_year FROM students WHERE email = 'nora@campus.example'")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2027), rows[0]["enrollment_year"])
}

func TestUpdateRejectsEmptyWhere(t *testing.T) {
	st := openTest(t)
	_, err := st.Update(context.Background(), "students",
		map[string]any{"enrollment_year": 2030}, nil)
	assert.Error(t, err)
}

func TestInsertRejectsEmptyValues(t *testing.T) {
	st := openTest(t)
	_, err := st.Insert(context.Background(), "students", nil)
	assert.Error(t, err)
}

func TestSchemaDescriptionListsEveryTable(t *testing.T) {
	desc := SchemaDescription()
	for table := range Tables() {
		assert.Contains(t, desc, "TABLE "+table)
	}
}
