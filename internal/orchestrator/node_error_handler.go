package orchestrator

import (
	"context"

	"finassist/pkg/logger"
)

// newErrorHandler builds the ErrorHandler node (spec §4.9): classify
// whatever landed in State.Error and either let a recoverable failure
// continue through the normal graph (ResultCombiner/ConfidenceCalculator
// degrade gracefully around a missing agent) or route straight to
// Responder for an unrecoverable one.
func newErrorHandler(deps Deps) NodeFunc {
	log := logger.Get().With("component", "node", "node", "ErrorHandler")

	return func(ctx context.Context, state *State) error {
		if state.Error == nil {
			return nil
		}

		log.Warnf("handling error kind=%s node=%s message=%s", state.Error.Kind, state.Error.Node, state.Error.Message)

		if deps.Tracer != nil {
			deps.Tracer.Emit(Span{
				Node:      "ErrorHandler",
				RequestID: state.RequestID,
				SessionID: state.SessionID,
				Outcome:   string(state.Error.Kind),
				Attrs: map[string]interface{}{
					"failed_node": state.Error.Node,
					"message":     state.Error.Message,
				},
			})
		}

		return nil
	}
}

// errorHandlerRoute sends unrecoverable errors straight to Responder,
// skipping ResultCombiner/ConfidenceCalculator entirely; a recoverable
// error (a single optional agent's failure) falls through to the
// unconditional edge instead, letting the rest of the graph degrade
// around the gap.
func errorHandlerRoute(state *State) string {
	if state.hasUnrecoverableError() {
		return nodeResponder
	}
	return ""
}
