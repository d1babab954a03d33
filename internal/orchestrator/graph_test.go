package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/pkg/errors"
)

func TestGraph_Run_LinearPath(t *testing.T) {
	g := NewGraph("A", []string{"C"}, 10)

	g.AddNode("A", func(ctx context.Context, s *State) error {
		s.Query = "from-a"
		return nil
	})
	g.AddNode("B", func(ctx context.Context, s *State) error {
		s.Query += "-from-b"
		return nil
	})
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")

	state := NewState(Request{}, "req-1")
	out := g.Run(context.Background(), state)

	assert.Equal(t, "from-a-from-b", out.Query)
	assert.Len(t, out.Trace, 2)
	assert.Equal(t, "ok", out.Trace[0].Outcome)
}

func TestGraph_Run_ErrorDivertsToErrorHandler(t *testing.T) {
	g := NewGraph("A", []string{"Responder"}, 10)

	g.AddNode("A", func(ctx context.Context, s *State) error {
		return errors.Wrap(errors.ErrInternal, "boom")
	})
	g.AddNode(nodeErrorHandler, func(ctx context.Context, s *State) error {
		return nil
	})
	g.AddNode("Responder", func(ctx context.Context, s *State) error {
		return nil
	})
	g.AddEdge("A", "Responder")
	g.AddEdge(nodeErrorHandler, "Responder")

	state := NewState(Request{}, "req-1")
	out := g.Run(context.Background(), state)

	require.NotNil(t, out.Error)
	assert.False(t, out.Error.Recoverable)
	assert.Equal(t, "A", out.Error.Node)

	// A's failure, then ErrorHandler running cleanly, then Responder.
	assert.Len(t, out.Trace, 3)
	assert.Equal(t, "A", out.Trace[0].Node)
	assert.Equal(t, "error", out.Trace[0].Outcome)
	assert.Equal(t, nodeErrorHandler, out.Trace[1].Node)
	assert.Equal(t, "ok", out.Trace[1].Outcome)
}

func TestGraph_Run_RecoverableErrorContinues(t *testing.T) {
	g := NewGraph("A", []string{"B"}, 10)

	g.AddNode("A", func(ctx context.Context, s *State) error {
		s.Error = &ErrorInfo{Recoverable: true, Node: "A", Message: "optional agent failed"}
		return nil
	})
	g.AddNode("B", func(ctx context.Context, s *State) error {
		return nil
	})
	g.AddEdge("A", "B")

	state := NewState(Request{}, "req-1")
	out := g.Run(context.Background(), state)

	// recoverable error must not divert to ErrorHandler
	assert.Len(t, out.Trace, 2)
	assert.Equal(t, "B", out.Trace[1].Node)
}

func TestGraph_Run_PanicRecovered(t *testing.T) {
	g := NewGraph("A", []string{"Responder"}, 10)

	g.AddNode("A", func(ctx context.Context, s *State) error {
		panic("node exploded")
	})
	g.AddNode(nodeErrorHandler, func(ctx context.Context, s *State) error { return nil })
	g.AddNode("Responder", func(ctx context.Context, s *State) error { return nil })
	g.AddEdge("A", "Responder")
	g.AddEdge(nodeErrorHandler, "Responder")

	state := NewState(Request{}, "req-1")

	assert.NotPanics(t, func() {
		out := g.Run(context.Background(), state)
		require.NotNil(t, out.Error)
		assert.Equal(t, errors.KindInternal, out.Error.Kind)
	})
}

func TestGraph_Run_MaxHopsExceeded(t *testing.T) {
	g := NewGraph("A", []string{"never"}, 3)

	g.AddNode("A", func(ctx context.Context, s *State) error { return nil })
	g.AddNode("B", func(ctx context.Context, s *State) error { return nil })
	g.AddNode(nodeErrorHandler, func(ctx context.Context, s *State) error { return nil })
	// A -> B -> A -> B ... cycles forever without ever reaching "never"
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")
	g.AddEdge(nodeErrorHandler, "never")

	state := NewState(Request{}, "req-1")
	out := g.Run(context.Background(), state)

	require.NotNil(t, out.Error)
	assert.Equal(t, errors.KindInternal, out.Error.Kind)
}

func TestGraph_Run_UnknownNodeDivertsToErrorHandler(t *testing.T) {
	g := NewGraph("A", []string{"Responder"}, 10)

	g.AddNode("A", func(ctx context.Context, s *State) error { return nil })
	g.AddNode(nodeErrorHandler, func(ctx context.Context, s *State) error { return nil })
	g.AddNode("Responder", func(ctx context.Context, s *State) error { return nil })
	g.AddEdge("A", "missing-node")
	g.AddEdge(nodeErrorHandler, "Responder")

	state := NewState(Request{}, "req-1")
	out := g.Run(context.Background(), state)

	require.NotNil(t, out.Error)
	assert.False(t, out.Error.Recoverable)
}

func TestGraph_Run_ConditionalRoute(t *testing.T) {
	g := NewGraph("A", []string{"X", "Y"}, 10)

	g.AddNode("A", func(ctx context.Context, s *State) error {
		s.Query = "route-me"
		return nil
	})
	g.AddEdge("A", "X") // default edge
	g.AddRoute("A", func(s *State) string {
		if s.Query == "route-me" {
			return "Y"
		}
		return ""
	})

	state := NewState(Request{}, "req-1")
	out := g.Run(context.Background(), state)

	assert.Len(t, out.Trace, 1)
	assert.Equal(t, "A", out.Trace[0].Node)
}
