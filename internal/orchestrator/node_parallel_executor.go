package orchestrator

import (
	"context"
	"sync"
	"time"

	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// newParallelExecutor builds the ParallelExecutor node (spec §4.4 /
// §5): run each stage of the plan through a bounded worker pool, one
// pool task per agent in the stage, each bounded by its own per-agent
// deadline. A stage only advances once every agent in it has returned or
// timed out; a required agent's failure short-circuits the whole request
// to ErrorHandler, while an optional agent's failure degrades gracefully.
func newParallelExecutor(deps Deps, cfg Config) NodeFunc {
	log := logger.Get().With("component", "node", "node", "ParallelExecutor")
	pool := newWorkerPool(cfg.WorkerPoolSize)

	return func(ctx context.Context, state *State) error {
		if state.Plan == nil || len(state.Plan.Stages) == 0 {
			return nil // nothing to run, e.g. general intent
		}

		required := requiredAgents(state.Analysis)

		for _, stage := range state.Plan.Stages {
			results := runStage(ctx, pool, deps, cfg, state, stage, log)

			for _, r := range results {
				state.setAgentResult(r.Agent, r)
				installPayload(state, r)

				if !r.Success && required[r.Agent] {
					state.Error = &ErrorInfo{
						Kind:        errors.KindRequiredAgentFailed,
						Node:        "ParallelExecutor",
						Message:     "required agent " + string(r.Agent) + " failed",
						Recoverable: false,
					}
					return nil
				}
			}

			if state.ShortCircuit != nil && state.ShortCircuit.Active {
				return nil
			}
		}

		return nil
	}
}

// requiredAgents returns the set of agents whose failure must abort the
// request (spec §4.4): data is required for data, analysis and
// visualization intents, and no other agent is ever required — dispatching
// an agent in a stage never by itself makes it required.
func requiredAgents(a *Analysis) map[AgentName]bool {
	required := make(map[AgentName]bool)
	if a == nil {
		return required
	}
	if a.PrimaryIntent == ActionData || a.PrimaryIntent == ActionAnalysis || a.PrimaryIntent == ActionVisualization {
		required[AgentData] = true
	}
	return required
}

// runStage dispatches every agent in a stage to the shared worker pool and
// waits for all of them, honoring per-agent timeouts independently so a
// slow agent never delays its stage-mates' deadlines.
func runStage(ctx context.Context, pool *workerPool, deps Deps, cfg Config, state *State, stage Stage, log *logger.Logger) []*AgentResult {
	var wg sync.WaitGroup
	results := make([]*AgentResult, len(stage.Agents))

	for i, name := range stage.Agents {
		i, name := i, name
		wg.Add(1)
		pool.submit(func() {
			defer wg.Done()
			results[i] = runAgent(ctx, deps, cfg, state, name, log)
		})
	}

	wg.Wait()
	return results
}

// runAgent looks up the concrete agent for name, applies its configured
// timeout, and recovers from panics so one misbehaving agent cannot abort
// the request.
func runAgent(ctx context.Context, deps Deps, cfg Config, state *State, name AgentName, log *logger.Logger) (result *AgentResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("agent %s panicked: %v", name, r)
			result = &AgentResult{
				Agent:   name,
				Success: false,
				Error: &ErrorInfo{
					Kind:        errors.KindInternal,
					Node:        string(name),
					Message:     "agent panicked",
					Recoverable: true,
				},
				ElapsedMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	ag, ok := deps.Agents[name]
	if !ok {
		return &AgentResult{
			Agent:   name,
			Success: false,
			Error: &ErrorInfo{
				Kind:        errors.KindInternal,
				Node:        string(name),
				Message:     "no agent registered for " + string(name),
				Recoverable: true,
			},
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	agentCtx, cancel := context.WithTimeout(ctx, cfg.TimeoutFor(name))
	defer cancel()

	result = ag.Process(agentCtx, deps, state)
	if result == nil {
		result = &AgentResult{Agent: name, Success: false}
	}
	result.ElapsedMs = time.Since(start).Milliseconds()

	if agentCtx.Err() != nil && !result.Success {
		result.Error = &ErrorInfo{
			Kind:        errors.KindTimeout,
			Node:        string(name),
			Message:     "agent timed out",
			Recoverable: true,
		}
	}

	return result
}

// installPayload mirrors a successful agent's typed payload onto State's
// dedicated field for convenient downstream access, and raises
// ShortCircuit if DataAgent requested one.
func installPayload(state *State, r *AgentResult) {
	if !r.Success || r.Payload == nil {
		return
	}

	switch p := r.Payload.(type) {
	case DataPayload:
		state.FinancialData = &p
	case AnalysisPayload:
		state.AnalysisResult = &p
	case NewsPayload:
		state.NewsData = &p
	case KnowledgePayload:
		state.KnowledgeContext = &p
	case VisualizationPayload:
		state.Chart = &p
	}
}

// workerPool is a fixed-size goroutine pool with a FIFO queue, per spec
// §5's bounded-concurrency requirement: default 8 workers, tasks beyond
// that queue rather than spawning unbounded goroutines. The queue is a
// channel buffered to 256 tasks; once it is full, submit blocks until a
// worker takes a task.
type workerPool struct {
	tasks chan func()
}

func newWorkerPool(size int) *workerPool {
	if size <= 0 {
		size = 8
	}
	p := &workerPool{tasks: make(chan func(), 256)}
	for i := 0; i < size; i++ {
		go p.loop()
	}
	return p
}

func (p *workerPool) loop() {
	for task := range p.tasks {
		task()
	}
}

func (p *workerPool) submit(task func()) {
	p.tasks <- task
}
