// Package tracer adapts the error-tracking Tracker and structured logger
// to the orchestrator's Span-emitting Tracer capability.
package tracer

import (
	"context"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// SpanTracer emits each node's Span as a breadcrumb on the configured
// error tracker (if any) and a structured log line. Emit never blocks
// and never raises: a dropped span is not worth failing a request over.
type SpanTracer struct {
	errTracker errors.Tracker
	log        *logger.Logger
}

func New(errTracker errors.Tracker) *SpanTracer {
	return &SpanTracer{errTracker: errTracker, log: logger.Get().With("component", "tracer")}
}

var _ orchestrator.Tracer = (*SpanTracer)(nil)

// Emit records span synchronously as a log line plus, when an error
// tracker is configured, a breadcrumb.
func (t *SpanTracer) Emit(span orchestrator.Span) {
	duration := span.End.Sub(span.Start)

	t.log.Infow("node span",
		"node", span.Node,
		"request_id", span.RequestID,
		"session_id", span.SessionID,
		"outcome", span.Outcome,
		"duration_ms", duration.Milliseconds(),
	)

	if t.errTracker == nil {
		return
	}

	data := map[string]interface{}{
		"request_id":  span.RequestID,
		"session_id":  span.SessionID,
		"outcome":     span.Outcome,
		"duration_ms": duration.Milliseconds(),
	}
	for k, v := range span.Attrs {
		data[k] = v
	}

	level := errors.LevelInfo
	if span.Outcome == "error" {
		level = errors.LevelWarning
	}

	t.errTracker.AddBreadcrumb(context.Background(), span.Node, "orchestrator.node", level, data)
}
