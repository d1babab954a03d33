package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finassist/pkg/errors"
)

func TestErrorHandler_NoErrorIsNoop(t *testing.T) {
	node := newErrorHandler(Deps{})
	state := NewState(Request{}, "req-1")

	require.NoError(t, node(context.Background(), state))
}

func TestErrorHandler_EmitsSpanWhenTracerConfigured(t *testing.T) {
	tracer := new(mockTracer)
	tracer.On("Emit", mock.MatchedBy(func(span Span) bool {
		return span.Node == "ErrorHandler" && span.Outcome == string(errors.KindInternal)
	})).Return()

	node := newErrorHandler(Deps{Tracer: tracer})
	state := NewState(Request{}, "req-1")
	state.Error = &ErrorInfo{Kind: errors.KindInternal, Node: "QueryAnalyzer", Message: "boom", Recoverable: false}

	require.NoError(t, node(context.Background(), state))
	tracer.AssertExpectations(t)
}

func TestErrorHandlerRoute_UnrecoverableGoesToResponder(t *testing.T) {
	state := NewState(Request{}, "req-1")
	state.Error = &ErrorInfo{Recoverable: false}

	assert.Equal(t, nodeResponder, errorHandlerRoute(state))
}

func TestErrorHandlerRoute_RecoverableFallsThrough(t *testing.T) {
	state := NewState(Request{}, "req-1")
	state.Error = &ErrorInfo{Recoverable: true}

	assert.Equal(t, "", errorHandlerRoute(state))
}
