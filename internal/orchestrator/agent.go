package orchestrator

import "context"

// Agent is the uniform contract every worker-agent satisfies. Concrete
// agents live under internal/orchestrator/agents and are wired into
// Deps.Agents by the process that constructs the Orchestrator (never by
// this package, to avoid an import cycle between the node graph and the
// agent implementations that depend on its own collaborator interfaces).
type Agent interface {
	Name() AgentName
	Process(ctx context.Context, deps Deps, state *State) *AgentResult
}
