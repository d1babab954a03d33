package orchestrator

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// mockLanguageModel stands in for LanguageModel in node tests, following
// the teacher's mock.Mock-embedding convention for collaborator fakes.
type mockLanguageModel struct {
	mock.Mock
}

func (m *mockLanguageModel) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	args := m.Called(ctx, system, user, temperature, maxTokens)
	return args.String(0), args.Error(1)
}

type mockSymbolLookup struct {
	mock.Mock
}

func (m *mockSymbolLookup) Resolve(ctx context.Context, text string) (string, bool, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Bool(1), args.Error(2)
}

type mockMarketData struct {
	mock.Mock
}

func (m *mockMarketData) Quote(ctx context.Context, symbol string) (*Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Quote), args.Error(1)
}

type mockSemanticIndex struct {
	mock.Mock
}

func (m *mockSemanticIndex) Search(ctx context.Context, text string, topK int, minScore float64) ([]SemanticHit, error) {
	args := m.Called(ctx, text, topK, minScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SemanticHit), args.Error(1)
}

type mockTracer struct {
	mock.Mock
}

func (m *mockTracer) Emit(span Span) {
	m.Called(span)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetQuote(symbol string) (*Quote, bool) {
	args := m.Called(symbol)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*Quote), args.Bool(1)
}

func (m *mockCache) SetQuote(symbol string, quote *Quote) {
	m.Called(symbol, quote)
}

func (m *mockCache) GetSymbol(text string) (string, bool) {
	args := m.Called(text)
	return args.String(0), args.Bool(1)
}

func (m *mockCache) SetSymbol(text string, symbol string) {
	m.Called(text, symbol)
}

// stubAgent is a minimal Agent fake used to drive ParallelExecutor without
// a concrete worker-agent implementation.
type stubAgent struct {
	name   AgentName
	result *AgentResult
	delay  func()
}

func (s *stubAgent) Name() AgentName { return s.name }

func (s *stubAgent) Process(ctx context.Context, deps Deps, state *State) *AgentResult {
	if s.delay != nil {
		s.delay()
	}
	if s.result != nil {
		return s.result
	}
	return &AgentResult{Agent: s.name, Success: true}
}
