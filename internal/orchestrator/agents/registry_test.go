package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finassist/internal/orchestrator"
)

func TestNewRegistry_ContainsAllFiveAgents(t *testing.T) {
	registry := NewRegistry()

	for _, name := range []orchestrator.AgentName{
		orchestrator.AgentData,
		orchestrator.AgentAnalysis,
		orchestrator.AgentNews,
		orchestrator.AgentKnowledge,
		orchestrator.AgentVisualization,
	} {
		agent, ok := registry[name]
		assert.True(t, ok, "expected registry to contain %s", name)
		assert.Equal(t, name, agent.Name())
	}
}
