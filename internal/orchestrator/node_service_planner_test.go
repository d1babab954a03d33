package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePlanner_NoAnalysisIsNoop(t *testing.T) {
	node := newServicePlanner()
	state := NewState(Request{}, "req-1")

	require.NoError(t, node(context.Background(), state))
	assert.Nil(t, state.Plan)
}

func TestServicePlanner_GeneralIntentProducesEmptyPlan(t *testing.T) {
	node := newServicePlanner()
	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{PrimaryIntent: ActionGeneral}

	require.NoError(t, node(context.Background(), state))
	require.NotNil(t, state.Plan)
	assert.Equal(t, PlanSingle, state.Plan.Mode)
	assert.Nil(t, state.Plan.Stages)
}

func TestServicePlanner_SimpleComplexityRunsOneStage(t *testing.T) {
	node := newServicePlanner()
	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{
		PrimaryIntent:  ActionNews,
		Complexity:     ComplexitySimple,
		RequiredAgents: []AgentName{AgentNews},
	}

	require.NoError(t, node(context.Background(), state))
	require.Len(t, state.Plan.Stages, 1)
	assert.Equal(t, []AgentName{AgentNews}, state.Plan.Stages[0].Agents)
}

func TestServicePlanner_ModerateComplexitySeparatesDataFromAnalysis(t *testing.T) {
	node := newServicePlanner()
	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{
		PrimaryIntent:  ActionAnalysis,
		Complexity:     ComplexityModerate,
		RequiredAgents: []AgentName{AgentData, AgentAnalysis},
	}

	require.NoError(t, node(context.Background(), state))
	require.Len(t, state.Plan.Stages, 2)
	assert.Equal(t, []AgentName{AgentData}, state.Plan.Stages[0].Agents)
	assert.Equal(t, []AgentName{AgentAnalysis}, state.Plan.Stages[1].Agents)
}

func TestServicePlanner_ModerateComplexityKeepsNewsAndKnowledgeInFirstStage(t *testing.T) {
	node := newServicePlanner()
	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{
		PrimaryIntent:  ActionAnalysis,
		Complexity:     ComplexityModerate,
		RequiredAgents: []AgentName{AgentData, AgentNews, AgentKnowledge, AgentAnalysis},
	}

	require.NoError(t, node(context.Background(), state))
	require.Len(t, state.Plan.Stages, 2)
	assert.ElementsMatch(t, []AgentName{AgentData, AgentNews, AgentKnowledge}, state.Plan.Stages[0].Agents)
	assert.Equal(t, []AgentName{AgentAnalysis}, state.Plan.Stages[1].Agents)
}

func TestServicePlanner_ComplexQueryRunsDataThenNewsThenAnalysisWithVisualization(t *testing.T) {
	node := newServicePlanner()
	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{
		PrimaryIntent:  ActionAnalysis,
		Complexity:     ComplexityComplex,
		RequiredAgents: []AgentName{AgentData, AgentAnalysis, AgentVisualization, AgentNews},
	}

	require.NoError(t, node(context.Background(), state))
	require.Len(t, state.Plan.Stages, 3)
	assert.Equal(t, []AgentName{AgentData}, state.Plan.Stages[0].Agents)
	assert.Equal(t, []AgentName{AgentNews}, state.Plan.Stages[1].Agents)
	assert.ElementsMatch(t, []AgentName{AgentAnalysis, AgentVisualization}, state.Plan.Stages[2].Agents)
	assert.Equal(t, PlanHybrid, state.Plan.Mode)
}

func TestServicePlanner_ComplexQueryWithKnowledgeAndNoVisualizationKeepsAnalysisAloneLast(t *testing.T) {
	node := newServicePlanner()
	state := NewState(Request{}, "req-1")
	state.Analysis = &Analysis{
		PrimaryIntent:  ActionAnalysis,
		Complexity:     ComplexityComplex,
		RequiredAgents: []AgentName{AgentData, AgentKnowledge, AgentAnalysis},
	}

	require.NoError(t, node(context.Background(), state))
	require.Len(t, state.Plan.Stages, 3)
	assert.Equal(t, []AgentName{AgentData}, state.Plan.Stages[0].Agents)
	assert.Equal(t, []AgentName{AgentKnowledge}, state.Plan.Stages[1].Agents)
	assert.Equal(t, []AgentName{AgentAnalysis}, state.Plan.Stages[2].Agents)
}
