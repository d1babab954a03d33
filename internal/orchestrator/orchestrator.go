package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

const (
	nodeQueryAnalyzer      = "QueryAnalyzer"
	nodeServicePlanner     = "ServicePlanner"
	nodeParallelExecutor   = "ParallelExecutor"
	nodeResultCombiner     = "ResultCombiner"
	nodeConfidenceCalc     = "ConfidenceCalculator"
	nodeResponder          = "Responder"
)

// Orchestrator wires Deps and Config into a constructed Graph and exposes
// the single Orchestrate entry point, per spec §2's system overview.
type Orchestrator struct {
	graph *Graph
	cfg   Config
	log   *logger.Logger
}

// New builds the orchestrator's graph: QueryAnalyzer classifies, then
// ServicePlanner and ParallelExecutor stage and run whichever worker-
// agents the classification named, then ResultCombiner and
// ConfidenceCalculator finish before Responder formats the final
// Response. Any node's unrecoverable error diverts to ErrorHandler,
// which either lets a recoverable failure continue or routes straight to
// Responder.
func New(deps Deps, cfg Config) *Orchestrator {
	g := NewGraph(nodeQueryAnalyzer, []string{nodeResponder}, cfg.MaxGraphHops)

	g.AddNode(nodeQueryAnalyzer, newQueryAnalyzer(deps))
	g.AddNode(nodeServicePlanner, newServicePlanner())
	g.AddNode(nodeParallelExecutor, newParallelExecutor(deps, cfg))
	g.AddNode(nodeResultCombiner, newResultCombiner(deps))
	g.AddNode(nodeConfidenceCalc, newConfidenceCalculator(deps, cfg))
	g.AddNode(nodeResponder, newResponder())
	g.AddNode(nodeErrorHandler, newErrorHandler(deps))

	g.AddEdge(nodeQueryAnalyzer, nodeServicePlanner)
	g.AddEdge(nodeServicePlanner, nodeParallelExecutor)
	g.AddEdge(nodeParallelExecutor, nodeResultCombiner)
	g.AddEdge(nodeResultCombiner, nodeConfidenceCalc)
	g.AddEdge(nodeConfidenceCalc, nodeResponder)
	g.AddEdge(nodeErrorHandler, nodeResponder)

	g.AddRoute(nodeErrorHandler, errorHandlerRoute)

	return &Orchestrator{
		graph: g,
		cfg:   cfg,
		log:   logger.Get().With("component", "orchestrator"),
	}
}

// Orchestrate runs a single request through the graph, applying the
// request-wide timeout ceiling (spec §5) on top of whatever the caller's
// context already carries.
func (o *Orchestrator) Orchestrate(ctx context.Context, req Request) (Response, error) {
	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}

	requestID := uuid.New().String()
	state := NewState(req, requestID)

	o.log.Infof("orchestrating request=%s session=%s", requestID, req.SessionID)

	final := o.graph.Run(ctx, state)

	if final.Response == nil {
		return Response{}, errors.Wrap(errors.ErrInternal, "graph completed without producing a response")
	}

	return *final.Response, nil
}
