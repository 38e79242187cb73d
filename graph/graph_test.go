package graph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/agent"
	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/internal/testutil"
	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/metrics"
	"github.com/campusops/adminflow/trace"
)

var (
	analysisOwner = core.CoordinatorOwner(core.DomainAnalysis)
	queryOwner    = core.SpecialistOwner(core.CapabilityQuery)
	chartOwner    = core.SpecialistOwner(core.CapabilityChart)
)

func quietLogger() *logging.TurnLogger {
	return logging.NewSlogLogger(logging.LogLevelError, "text", false)
}

func newGraph(t *testing.T, registry *agent.Registry, recorder trace.Recorder, optFns ...func(o *Options)) *Graph {
	t.Helper()
	base := func(o *Options) {
		o.Recorder = recorder
		o.Metrics = metrics.NewTestCollector()
		o.Logger = quietLogger()
	}
	return New(registry, append([]func(o *Options){base}, optFns...)...)
}

func registryOf(t *testing.T, director agent.Decider, coordinators []agent.Decider, specialists []agent.Specialist) *agent.Registry {
	t.Helper()
	r, err := agent.NewRegistry(director, coordinators, specialists)
	require.NoError(t, err)
	return r
}

func TestRunTurnHappyPath(t *testing.T) {
	rows := core.Rows{{"n": int64(3)}}
	director := testutil.NewScriptedDecider(core.DirectorOwner(),
		core.Delegate(analysisOwner, core.Instruction{Text: "count students"}))
	coordinator := testutil.NewScriptedDecider(analysisOwner,
		core.Delegate(queryOwner, core.Instruction{Text: "count students"}),
		core.Respond("Found 3 students."))
	specialist := testutil.NewScriptedSpecialist(queryOwner,
		core.OkRows(core.CapabilityQuery, rows, []string{"n"}))

	recorder := trace.NewMemoryRecorder()
	g := newGraph(t,
		registryOf(t, director, []agent.Decider{coordinator}, []agent.Specialist{specialist}),
		recorder)

	st := core.NewConversationState("sess-1")
	resp, err := g.RunTurn(context.Background(), st, "how many students?")
	require.NoError(t, err)

	assert.Equal(t, "Found 3 students.", resp.Message)
	assert.Nil(t, resp.Visualization)
	assert.True(t, st.Terminal)
	assert.Equal(t, rows, st.Rows)
	assert.Equal(t, 1, specialist.Executions())

	// History gained the user message and the final reply.
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "user", st.Messages[0].Role)
	assert.Equal(t, "assistant", st.Messages[1].Role)

	entries, err := recorder.ReadAll("sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "delegate:coordinator:analysis", entries[0].Action)
	assert.Equal(t, "delegate:specialist:query", entries[1].Action)
	assert.Equal(t, "ok:query", entries[2].Action)
	assert.Equal(t, "respond", entries[3].Action)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Step, "steps number from one in order")
	}
}

func TestRunTurnCarriesVisualization(t *testing.T) {
	viz := &core.Visualization{Data: []byte{1}, MediaType: "image/png", ChartKind: "bar"}
	director := testutil.NewScriptedDecider(core.DirectorOwner(),
		core.Delegate(analysisOwner, core.Instruction{Text: "chart it"}))
	coordinator := testutil.NewScriptedDecider(analysisOwner,
		core.Delegate(chartOwner, core.Instruction{Text: "chart it"}),
		core.Respond("Here is the chart."))
	specialist := testutil.NewScriptedSpecialist(chartOwner, core.OkVisualization(viz))

	recorder := trace.NewMemoryRecorder()
	g := newGraph(t,
		registryOf(t, director, []agent.Decider{coordinator}, []agent.Specialist{specialist}),
		recorder)

	st := core.NewConversationState("sess-1")
	resp, err := g.RunTurn(context.Background(), st, "chart it")
	require.NoError(t, err)
	assert.Same(t, viz, resp.Visualization)

	entries, err := recorder.ReadAll("sess-1")
	require.NoError(t, err)
	assert.False(t, entries[1].Visualization, "no artifact before the chart step completed")
	assert.True(t, entries[2].Visualization)
	assert.True(t, entries[3].Visualization)
}

func TestRunTurnEnforcesStepCeiling(t *testing.T) {
	// Director and coordinator delegate to each other forever.
	director := testutil.NewScriptedDecider(core.DirectorOwner(),
		core.Delegate(analysisOwner, core.Instruction{}))
	coordinator := testutil.NewScriptedDecider(analysisOwner,
		core.Delegate(core.DirectorOwner(), core.Instruction{}))

	g := newGraph(t,
		registryOf(t, director, []agent.Decider{coordinator}, nil),
		trace.NewMemoryRecorder(),
		func(o *Options) { o.MaxSteps = 6 })

	st := core.NewConversationState("sess-1")
	resp, err := g.RunTurn(context.Background(), st, "loop forever")

	assert.ErrorIs(t, err, core.ErrStepLimitExceeded)
	assert.NotEmpty(t, resp.Message, "the user still gets a well-formed reply")
	assert.True(t, st.Terminal)
	assert.LessOrEqual(t, director.Decisions()+coordinator.Decisions(), 6)
}

func TestRunTurnFailureClimbsToOwningCoordinator(t *testing.T) {
	director := testutil.NewScriptedDecider(core.DirectorOwner(),
		core.Delegate(analysisOwner, core.Instruction{Text: "count"}))
	coordinator := testutil.NewScriptedDecider(analysisOwner,
		core.Delegate(queryOwner, core.Instruction{Text: "count"}),
		core.Respond("I can't do that: bad query"))
	specialist := testutil.NewScriptedSpecialist(queryOwner,
		core.Failed(core.CapabilityQuery, core.FailureRejected, "bad query"))

	recorder := trace.NewMemoryRecorder()
	g := newGraph(t,
		registryOf(t, director, []agent.Decider{coordinator}, []agent.Specialist{specialist}),
		recorder)

	st := core.NewConversationState("sess-1")
	resp, err := g.RunTurn(context.Background(), st, "count")
	require.NoError(t, err, "a tool failure is a routed outcome, not a transport error")

	assert.Contains(t, resp.Message, "I can't do that")
	require.NotNil(t, st.LastFailure)
	assert.Equal(t, core.FailureRejected, st.LastFailure.Kind)
	assert.Equal(t, 2, coordinator.Decisions(), "the failure climbed back to the coordinator")

	entries, err := recorder.ReadAll("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "error:rejected", entries[2].Action)
}

// slowDecider sleeps before delegating, ignoring its context the way a
// stuck model call would.
type slowDecider struct {
	owner core.Owner
	delay time.Duration
	next  core.RoutingDecision
}

func (d *slowDecider) Owner() core.Owner { return d.owner }

func (d *slowDecider) Decide(context.Context, *core.ConversationState, core.Instruction) (core.RoutingDecision, error) {
	time.Sleep(d.delay)
	return d.next, nil
}

func TestRunTurnHonorsTurnTimeoutAtRoutingBoundary(t *testing.T) {
	director := &slowDecider{
		owner: core.DirectorOwner(),
		delay: 50 * time.Millisecond,
		next:  core.Delegate(analysisOwner, core.Instruction{}),
	}
	coordinator := testutil.NewScriptedDecider(analysisOwner, core.Respond("too late"))

	g := newGraph(t,
		registryOf(t, director, []agent.Decider{coordinator}, nil),
		trace.NewMemoryRecorder(),
		func(o *Options) { o.TurnTimeout = 10 * time.Millisecond })

	st := core.NewConversationState("sess-1")
	resp, err := g.RunTurn(context.Background(), st, "slow")

	assert.ErrorIs(t, err, core.ErrTurnTimeout)
	assert.NotEmpty(t, resp.Message)
	assert.True(t, st.Terminal)
	assert.Zero(t, coordinator.Decisions(), "the deadline was observed before the next routing step")
}

func TestRunTurnHonorsCancellation(t *testing.T) {
	director := &slowDecider{
		owner: core.DirectorOwner(),
		delay: 20 * time.Millisecond,
		next:  core.Delegate(analysisOwner, core.Instruction{}),
	}
	coordinator := testutil.NewScriptedDecider(analysisOwner, core.Respond("unreachable"))

	g := newGraph(t,
		registryOf(t, director, []agent.Decider{coordinator}, nil),
		trace.NewMemoryRecorder())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	st := core.NewConversationState("sess-1")
	resp, err := g.RunTurn(ctx, st, "cancel me")

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEmpty(t, resp.Message)
	assert.True(t, st.Terminal)
}

func TestRunTurnResetsWorkingSetBetweenTurns(t *testing.T) {
	viz := &core.Visualization{ChartKind: "bar"}
	director := testutil.NewScriptedDecider(core.DirectorOwner(),
		core.Delegate(analysisOwner, core.Instruction{}),
		core.Respond("no chart this time"))
	coordinator := testutil.NewScriptedDecider(analysisOwner,
		core.Delegate(chartOwner, core.Instruction{}),
		core.Respond("chart done"))
	specialist := testutil.NewScriptedSpecialist(chartOwner, core.OkVisualization(viz))

	g := newGraph(t,
		registryOf(t, director, []agent.Decider{coordinator}, []agent.Specialist{specialist}),
		trace.NewMemoryRecorder())

	st := core.NewConversationState("sess-1")
	first, err := g.RunTurn(context.Background(), st, "chart it")
	require.NoError(t, err)
	require.Same(t, viz, first.Visualization)

	second, err := g.RunTurn(context.Background(), st, "just answer")
	require.NoError(t, err)
	assert.Nil(t, second.Visualization, "artifacts never leak across turns")
}
