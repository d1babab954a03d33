package orchestrator

import "time"

// Config captures the runtime options spec §6 names. It mirrors the
// teacher's AgentConfig/DefaultAgentConfigs shape: one struct of tunables
// plus a per-agent timeout map, with defaults matching the spec exactly.
type Config struct {
	WorkerPoolSize int
	AgentTimeouts  map[AgentName]time.Duration
	RequestTimeout time.Duration
	MaxGraphHops   int

	NewsTopK     int
	NewsMinScore float64
	KnowledgeTopK int

	SimilarityDedupThreshold float64

	ConfidenceThresholds ConfidenceThresholds
}

// DefaultConfig matches spec §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		WorkerPoolSize: 8,
		AgentTimeouts: map[AgentName]time.Duration{
			AgentData:          10 * time.Second,
			AgentVisualization: 20 * time.Second,
			AgentAnalysis:      30 * time.Second,
			AgentNews:          30 * time.Second,
			AgentKnowledge:     30 * time.Second,
		},
		RequestTimeout:           120 * time.Second,
		MaxGraphHops:             32,
		NewsTopK:                 10,
		NewsMinScore:             0,
		KnowledgeTopK:            3,
		SimilarityDedupThreshold: 0.9,
		ConfidenceThresholds:     DefaultConfidenceThresholds(),
	}
}

// TimeoutFor returns the configured deadline for an agent, falling back
// to the 30s default when the agent has no explicit entry.
func (c Config) TimeoutFor(agent AgentName) time.Duration {
	if d, ok := c.AgentTimeouts[agent]; ok && d > 0 {
		return d
	}
	return 30 * time.Second
}
