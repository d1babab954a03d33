package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/pkg/errors"
)

func newTestConfig() Config {
	cfg := DefaultConfig()
	cfg.AgentTimeouts = map[AgentName]time.Duration{
		AgentData:          time.Second,
		AgentAnalysis:      time.Second,
		AgentNews:          time.Second,
		AgentKnowledge:     time.Second,
		AgentVisualization: time.Second,
	}
	return cfg
}

func TestParallelExecutor_NoPlanIsNoop(t *testing.T) {
	node := newParallelExecutor(Deps{}, newTestConfig())
	state := NewState(Request{}, "req-1")

	require.NoError(t, node(context.Background(), state))
	assert.Empty(t, state.AgentResults)
}

func TestParallelExecutor_RunsSingleStageAgents(t *testing.T) {
	deps := Deps{
		Agents: map[AgentName]Agent{
			AgentData: &stubAgent{name: AgentData, result: &AgentResult{
				Agent: AgentData, Success: true, Payload: DataPayload{},
			}},
			AgentNews: &stubAgent{name: AgentNews, result: &AgentResult{
				Agent: AgentNews, Success: true, Payload: NewsPayload{},
			}},
		},
	}
	node := newParallelExecutor(deps, newTestConfig())

	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{RequiredAgents: []AgentName{AgentData, AgentNews}}
	state.Plan = &Plan{Mode: PlanSingle, Stages: []Stage{{Agents: []AgentName{AgentData, AgentNews}}}}

	require.NoError(t, node(context.Background(), state))
	assert.Len(t, state.AgentResults, 2)
	assert.True(t, state.AgentResults[AgentData].Success)
	assert.True(t, state.AgentResults[AgentNews].Success)
	assert.NotNil(t, state.FinancialData)
	assert.NotNil(t, state.NewsData)
}

func TestParallelExecutor_RequiredAgentFailureShortCircuits(t *testing.T) {
	deps := Deps{
		Agents: map[AgentName]Agent{
			AgentData: &stubAgent{name: AgentData, result: &AgentResult{
				Agent: AgentData, Success: false,
				Error: &ErrorInfo{Kind: errors.KindSymbolNotFound, Node: "DataAgent", Recoverable: true},
			}},
			AgentAnalysis: &stubAgent{name: AgentAnalysis},
		},
	}
	node := newParallelExecutor(deps, newTestConfig())

	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{PrimaryIntent: ActionAnalysis, RequiredAgents: []AgentName{AgentData, AgentAnalysis}}
	state.Plan = &Plan{Mode: PlanSequential, Stages: []Stage{
		{Agents: []AgentName{AgentData}},
		{Agents: []AgentName{AgentAnalysis}},
	}}

	require.NoError(t, node(context.Background(), state))
	require.NotNil(t, state.Error)
	assert.Equal(t, errors.KindRequiredAgentFailed, state.Error.Kind)
	// second stage never ran since the required first-stage agent failed
	_, analysisRan := state.AgentResults[AgentAnalysis]
	assert.False(t, analysisRan)
}

// TestParallelExecutor_OnlyDataCanBeRequired pins spec §4.4's required-agent
// rule: data is required for analysis/visualization intents, nothing else
// ever is, regardless of which agents a stage actually dispatches. A failing
// AnalysisAgent in an analysis-intent request must degrade gracefully, not
// abort — this is the scenario S5 failure mode the naive "every dispatched
// agent is required" reading gets wrong.
func TestParallelExecutor_OnlyDataCanBeRequired(t *testing.T) {
	deps := Deps{
		Agents: map[AgentName]Agent{
			AgentData: &stubAgent{name: AgentData, result: &AgentResult{
				Agent: AgentData, Success: true, Payload: DataPayload{},
			}},
			AgentAnalysis: &stubAgent{name: AgentAnalysis, result: &AgentResult{
				Agent: AgentAnalysis, Success: false,
				Error: &ErrorInfo{Kind: errors.KindTransientExternal, Node: "AnalysisAgent", Recoverable: true},
			}},
		},
	}
	node := newParallelExecutor(deps, newTestConfig())

	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{PrimaryIntent: ActionAnalysis, RequiredAgents: []AgentName{AgentData, AgentAnalysis}}
	state.Plan = &Plan{Mode: PlanSequential, Stages: []Stage{
		{Agents: []AgentName{AgentData}},
		{Agents: []AgentName{AgentAnalysis}},
	}}

	require.NoError(t, node(context.Background(), state))
	assert.Nil(t, state.Error)
	assert.False(t, state.AgentResults[AgentAnalysis].Success)
}

func TestParallelExecutor_OptionalAgentFailureDegradesGracefully(t *testing.T) {
	deps := Deps{
		Agents: map[AgentName]Agent{
			AgentNews: &stubAgent{name: AgentNews, result: &AgentResult{
				Agent: AgentNews, Success: false,
				Error: &ErrorInfo{Kind: errors.KindTransientExternal, Node: "NewsAgent", Recoverable: true},
			}},
		},
	}
	node := newParallelExecutor(deps, newTestConfig())

	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{PrimaryIntent: ActionNews, RequiredAgents: []AgentName{AgentNews}}
	state.Plan = &Plan{Mode: PlanSingle, Stages: []Stage{{Agents: []AgentName{AgentNews}}}}

	require.NoError(t, node(context.Background(), state))
	assert.Nil(t, state.Error)
	assert.False(t, state.AgentResults[AgentNews].Success)
}

func TestParallelExecutor_MissingAgentRegistration(t *testing.T) {
	node := newParallelExecutor(Deps{Agents: map[AgentName]Agent{}}, newTestConfig())

	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{PrimaryIntent: ActionAnalysis, RequiredAgents: []AgentName{AgentData}}
	state.Plan = &Plan{Mode: PlanSingle, Stages: []Stage{{Agents: []AgentName{AgentData}}}}

	require.NoError(t, node(context.Background(), state))
	require.NotNil(t, state.Error)
	assert.Equal(t, errors.KindRequiredAgentFailed, state.Error.Kind)
}

func TestParallelExecutor_AgentTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AgentTimeouts = map[AgentName]time.Duration{AgentData: 10 * time.Millisecond}

	deps := Deps{
		Agents: map[AgentName]Agent{
			AgentData: &stubAgent{
				name: AgentData,
				delay: func() { time.Sleep(50 * time.Millisecond) },
				result: &AgentResult{Agent: AgentData, Success: false},
			},
		},
	}
	node := newParallelExecutor(deps, cfg)

	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{RequiredAgents: nil}
	state.Plan = &Plan{Mode: PlanSingle, Stages: []Stage{{Agents: []AgentName{AgentData}}}}

	require.NoError(t, node(context.Background(), state))
	result := state.AgentResults[AgentData]
	require.NotNil(t, result)
	require.NotNil(t, result.Error)
	assert.Equal(t, errors.KindTimeout, result.Error.Kind)
}

func TestParallelExecutor_ShortCircuitStopsFurtherStages(t *testing.T) {
	deps := Deps{
		Agents: map[AgentName]Agent{
			AgentData: &stubAgent{name: AgentData, result: &AgentResult{Agent: AgentData, Success: true}},
		},
	}
	node := newParallelExecutor(deps, newTestConfig())

	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{RequiredAgents: []AgentName{AgentData}}
	state.Plan = &Plan{Mode: PlanSingle, Stages: []Stage{
		{Agents: []AgentName{AgentData}},
		{Agents: []AgentName{AgentAnalysis}}, // never dispatched, no agent registered for it
	}}

	// simulate DataAgent raising ShortCircuit as its own side effect
	deps.Agents[AgentData] = &shortCircuitingStub{}

	require.NoError(t, node(context.Background(), state))
	assert.True(t, state.ShortCircuit.Active)
	_, ranSecondStage := state.AgentResults[AgentAnalysis]
	assert.False(t, ranSecondStage)
}

// shortCircuitingStub emulates DataAgent's short-circuit side effect on
// State, which stubAgent cannot express since it returns a fixed result.
type shortCircuitingStub struct{}

func (s *shortCircuitingStub) Name() AgentName { return AgentData }

func (s *shortCircuitingStub) Process(ctx context.Context, deps Deps, state *State) *AgentResult {
	state.ShortCircuit = &ShortCircuit{Active: true, Reply: "quick answer"}
	return &AgentResult{Agent: AgentData, Success: true}
}
