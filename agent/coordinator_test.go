package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/internal/testutil"
	"github.com/campusops/adminflow/model"
)

var sampleRows = core.Rows{
	{"program": "CS", "students": int64(42)},
	{"program": "History", "students": int64(17)},
}

func TestAnalysisCoordinatorSequencesQueryChartSummary(t *testing.T) {
	c := NewAnalysisCoordinator(model.NewStaticModel(), nil)
	instr := core.Instruction{Text: "chart students per program"}

	// No rows yet: query first.
	st := testutil.NewStateBuilder("s1").User(instr.Text).Build()
	dec, err := c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind)
	assert.Equal(t, core.SpecialistOwner(core.CapabilityQuery), dec.Target)

	// Rows present and a chart was asked for: chart next, carrying the rows.
	st = testutil.NewStateBuilder("s1").User(instr.Text).Rows(sampleRows, []string{"program", "students"}).Build()
	dec, err = c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind)
	assert.Equal(t, core.SpecialistOwner(core.CapabilityChart), dec.Target)
	assert.Equal(t, sampleRows, dec.Instruction.Rows, "the chart specialist sees only its instruction")
	assert.Equal(t, []string{"program", "students"}, dec.Instruction.Columns)

	// Chart rendered: summarize.
	st.Visualization = &core.Visualization{ChartKind: "bar"}
	dec, err = c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	assert.Equal(t, core.DecisionRespond, dec.Kind)
}

func TestAnalysisCoordinatorSkipsChartWithoutCue(t *testing.T) {
	c := NewAnalysisCoordinator(model.NewStaticModel(), nil)
	instr := core.Instruction{Text: "how many students per program"}

	st := testutil.NewStateBuilder("s1").User(instr.Text).Rows(sampleRows, []string{"program", "students"}).Build()
	dec, err := c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	assert.Equal(t, core.DecisionRespond, dec.Kind)
	assert.NotEmpty(t, dec.Message)
}

func TestCoordinatorRetriesTransientFailureOnce(t *testing.T) {
	c := NewAnalysisCoordinator(model.NewStaticModel(), nil)
	instr := core.Instruction{Text: "how many students"}

	st := testutil.NewStateBuilder("s1").User(instr.Text).
		Failure(core.CapabilityQuery, core.FailureTimeout, "query exceeded its deadline").
		Build()

	dec, err := c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind, "first transient failure is retried")
	assert.Equal(t, core.SpecialistOwner(core.CapabilityQuery), dec.Target)
	assert.Equal(t, 1, st.RetryCount)
	assert.Nil(t, st.LastFailure)
}

func TestCoordinatorExplainsSecondTransientFailure(t *testing.T) {
	c := NewAnalysisCoordinator(model.NewStaticModel(), nil)
	instr := core.Instruction{Text: "how many students"}

	st := testutil.NewStateBuilder("s1").User(instr.Text).
		Failure(core.CapabilityQuery, core.FailureTimeout, "query exceeded its deadline").
		Retried().
		Build()

	dec, err := c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionRespond, dec.Kind)
	assert.Contains(t, dec.Message, "timed out")
}

func TestCoordinatorNeverRetriesRejections(t *testing.T) {
	c := NewDataManagementCoordinator()
	instr := core.Instruction{Text: "insert a salary row"}

	st := testutil.NewStateBuilder("s1").User(instr.Text).
		Failure(core.CapabilityWrite, core.FailureRejected, `table "staff_salaries" is not writable`).
		Build()

	dec, err := c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionRespond, dec.Kind)
	assert.Contains(t, dec.Message, "I can't do that")
	assert.Contains(t, dec.Message, "staff_salaries")
	assert.Zero(t, st.RetryCount)
}

func TestCommunicationCoordinator(t *testing.T) {
	c := NewCommunicationCoordinator()
	instr := core.Instruction{Text: "email the advisors about the deadline"}

	st := testutil.NewStateBuilder("s1").User(instr.Text).Build()
	dec, err := c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind)
	assert.Equal(t, core.SpecialistOwner(core.CapabilityMail), dec.Target)

	st = testutil.NewStateBuilder("s1").User(instr.Text).Confirmation("message abc sent to advisors@campus.example").Build()
	dec, err = c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionRespond, dec.Kind)
	assert.Equal(t, "message abc sent to advisors@campus.example", dec.Message)
}

func TestDataManagementCoordinatorRoutesByCue(t *testing.T) {
	c := NewDataManagementCoordinator()

	st := testutil.NewStateBuilder("s1").User("generate 10 synthetic students").Build()
	dec, err := c.Decide(context.Background(), st, core.Instruction{Text: "generate 10 synthetic students"})
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind)
	assert.Equal(t, core.SpecialistOwner(core.CapabilitySynthetic), dec.Target)

	st = testutil.NewStateBuilder("s1").User("update the record for mira").Build()
	dec, err = c.Decide(context.Background(), st, core.Instruction{Text: "update the record for mira"})
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind)
	assert.Equal(t, core.SpecialistOwner(core.CapabilityWrite), dec.Target)
}

func TestIntegrationCoordinatorClimbsBackToDirector(t *testing.T) {
	c := NewIntegrationCoordinator()
	instr := core.Instruction{Text: "pull the transcript from the SIS"}

	st := testutil.NewStateBuilder("s1").User(instr.Text).Build()
	dec, err := c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind)
	assert.Equal(t, core.SpecialistOwner(core.CapabilityFetch), dec.Target)

	st = testutil.NewStateBuilder("s1").User(instr.Text).
		Records(&core.RecordSet{System: "sis", Endpoint: "transcript", Records: core.Rows{{"course": "CS101"}}}).
		Build()
	dec, err = c.Decide(context.Background(), st, instr)
	require.NoError(t, err)
	require.Equal(t, core.DecisionDelegate, dec.Kind)
	assert.Equal(t, core.DirectorOwner(), dec.Target, "fetched records go back to the director to compose")
}
