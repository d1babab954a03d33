package agents

import (
	"context"

	"github.com/stretchr/testify/mock"

	"finassist/internal/orchestrator"
)

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

func (m *mockMarketData) Quote(ctx context.Context, symbol string) (*orchestrator.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orchestrator.Quote), args.Error(1)
}

type mockSemanticIndex struct {
	mock.Mock
}

func (m *mockSemanticIndex) Search(ctx context.Context, text string, topK int, minScore float64) ([]orchestrator.SemanticHit, error) {
	args := m.Called(ctx, text, topK, minScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orchestrator.SemanticHit), args.Error(1)
}

type mockNewsGraph struct {
	mock.Mock
}

func (m *mockNewsGraph) Similar(ctx context.Context, embedding []float32, topK int, minScore float64) ([]orchestrator.Article, error) {
	args := m.Called(ctx, embedding, topK, minScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orchestrator.Article), args.Error(1)
}

type mockNewsFeed struct {
	mock.Mock
}

func (m *mockNewsFeed) Fetch(ctx context.Context, keywords []string, limit int) ([]orchestrator.Article, error) {
	args := m.Called(ctx, keywords, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orchestrator.Article), args.Error(1)
}

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) Embed(text string) ([]float32, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type mockChartRenderer struct {
	mock.Mock
}

func (m *mockChartRenderer) Render(ctx context.Context, series []orchestrator.SeriesPoint, kind orchestrator.ChartKind) ([]byte, error) {
	args := m.Called(ctx, series, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetQuote(symbol string) (*orchestrator.Quote, bool) {
	args := m.Called(symbol)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*orchestrator.Quote), args.Bool(1)
}

func (m *mockCache) SetQuote(symbol string, quote *orchestrator.Quote) {
	m.Called(symbol, quote)
}

func (m *mockCache) GetSymbol(text string) (string, bool) {
	args := m.Called(text)
	return args.String(0), args.Bool(1)
}

func (m *mockCache) SetSymbol(text string, symbol string) {
	m.Called(text, symbol)
}
