// Package agents implements the five worker-agents dispatched by the
// orchestrator's ParallelExecutor node: data, analysis, news, knowledge,
// and visualization.
package agents

import "finassist/internal/orchestrator"

// NewRegistry builds the complete worker-agent set, keyed by name, for
// wiring into Deps.Agents at Orchestrator construction time.
func NewRegistry() map[orchestrator.AgentName]orchestrator.Agent {
	return map[orchestrator.AgentName]orchestrator.Agent{
		orchestrator.AgentData:          NewDataAgent(),
		orchestrator.AgentAnalysis:      NewAnalysisAgent(),
		orchestrator.AgentNews:          NewNewsAgent(),
		orchestrator.AgentKnowledge:     NewKnowledgeAgent(),
		orchestrator.AgentVisualization: NewVisualizationAgent(),
	}
}
