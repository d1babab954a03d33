package orchestrator

import (
	"context"
	"fmt"
	"time"

	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// NodeFunc is one graph node. It reads its inputs from state and writes
// its outputs back; it must not mutate fields owned by another node.
type NodeFunc func(ctx context.Context, state *State) error

// RoutingFunc picks the next node name given the current state. A nil
// return means "fall through to the unconditional edge".
type RoutingFunc func(state *State) string

const nodeErrorHandler = "ErrorHandler"

// Graph drives a State through nodes according to static edges and
// dynamic routing functions, per spec §4.1.
type Graph struct {
	entry    string
	terminal map[string]bool

	nodes    map[string]NodeFunc
	edges    map[string]string
	routes   map[string]RoutingFunc

	maxHops int
	log     *logger.Logger
}

// NewGraph creates an empty graph with the given entry node, terminal
// node set, and cycle guard.
func NewGraph(entry string, terminals []string, maxHops int) *Graph {
	term := make(map[string]bool, len(terminals))
	for _, t := range terminals {
		term[t] = true
	}
	if maxHops <= 0 {
		maxHops = 32
	}
	return &Graph{
		entry:    entry,
		terminal: term,
		nodes:    make(map[string]NodeFunc),
		edges:    make(map[string]string),
		routes:   make(map[string]RoutingFunc),
		maxHops:  maxHops,
		log:      logger.Get().With("component", "graph"),
	}
}

// AddNode registers a node function under name.
func (g *Graph) AddNode(name string, fn NodeFunc) {
	g.nodes[name] = fn
}

// AddEdge registers the unconditional successor of "from".
func (g *Graph) AddEdge(from, to string) {
	g.edges[from] = to
}

// AddRoute registers a conditional routing function for "from", consulted
// before the unconditional edge.
func (g *Graph) AddRoute(from string, route RoutingFunc) {
	g.routes[from] = route
}

// Run drives state from the entry node to a terminal node, applying the
// failure and error-routing rules of spec §4.1. A terminal name with a
// registered node runs that node once, traced like any other, and then
// stops; a terminal name without a node stops immediately.
func (g *Graph) Run(ctx context.Context, state *State) *State {
	current := g.entry
	hops := 0
	exceeded := false

	for {
		if _, registered := g.nodes[current]; g.terminal[current] && !registered {
			return state
		}

		hops++
		if hops > g.maxHops && !exceeded {
			// Past the cap only ErrorHandler and the one node it leads to run.
			exceeded = true
			g.setUnrecoverable(state, current, errors.ErrInternal, "max graph hops exceeded")
			current = nodeErrorHandler
			if g.terminal[current] {
				return state
			}
		} else if exceeded && hops > g.maxHops+2 {
			return state
		}

		fn, ok := g.nodes[current]
		if !ok {
			g.setUnrecoverable(state, current, errors.ErrInternal, fmt.Sprintf("unknown node %q", current))
			current = nodeErrorHandler
			continue
		}

		hadError := state.hasUnrecoverableError()

		start := time.Now()
		err := g.invoke(ctx, fn, state)
		outcome := "ok"

		if err != nil {
			g.setUnrecoverable(state, current, err, err.Error())
			outcome = "error"
		} else if !hadError && state.hasUnrecoverableError() {
			outcome = "error"
		}

		state.appendTrace(TraceEntry{Node: current, Start: start, End: time.Now(), Outcome: outcome})

		if g.terminal[current] {
			return state
		}

		if outcome == "error" && current != nodeErrorHandler {
			current = nodeErrorHandler
			continue
		}

		current = g.next(current, state)
	}
}

// invoke calls fn and recovers from panics, turning them into internal
// errors so a single misbehaving node cannot crash the request.
func (g *Graph) invoke(ctx context.Context, fn NodeFunc, state *State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(errors.ErrInternal, "node panicked: %v", r)
		}
	}()
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrCancelled, "context cancelled before node execution")
	}
	return fn(ctx, state)
}

func (g *Graph) next(current string, state *State) string {
	if route, ok := g.routes[current]; ok {
		if next := route(state); next != "" {
			return next
		}
	}
	if to, ok := g.edges[current]; ok {
		return to
	}
	return nodeErrorHandler
}

func (g *Graph) setUnrecoverable(state *State, node string, err error, message string) {
	if state.Error != nil && !state.Error.Recoverable {
		return // first unrecoverable error wins, per single-writer discipline
	}
	state.Error = &ErrorInfo{
		Kind:        errors.KindOf(err),
		Node:        node,
		Message:     message,
		Recoverable: false,
	}
}
