package orchestrator

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResultCombiner_ShortCircuitUsesReplyVerbatim(t *testing.T) {
	node := newResultCombiner(Deps{})
	state := NewState(Request{}, "req-1")
	state.ShortCircuit = &ShortCircuit{Active: true, Reply: "AAPL: 190.00 (+1.20%)"}

	require.NoError(t, node(context.Background(), state))
	assert.Equal(t, "AAPL: 190.00 (+1.20%)", state.Combined.Reply)
	assert.False(t, state.Combined.Degraded)
}

func TestResultCombiner_NoSectionsProducesDegradedTemplate(t *testing.T) {
	node := newResultCombiner(Deps{})
	state := NewState(Request{}, "req-1")

	require.NoError(t, node(context.Background(), state))
	assert.True(t, state.Combined.Degraded)
	assert.NotEmpty(t, state.Combined.Reply)
}

func TestResultCombiner_NoLLMJoinsSectionsVerbatim(t *testing.T) {
	node := newResultCombiner(Deps{})
	state := NewState(Request{}, "req-1")
	state.FinancialData = &DataPayload{Symbol: &Quote{
		Symbol: "AAPL", Price: decimal.NewFromFloat(190.0), ChangePct: decimal.NewFromFloat(1.2),
	}}

	require.NoError(t, node(context.Background(), state))
	assert.True(t, state.Combined.Degraded)
	assert.Contains(t, state.Combined.Reply, "AAPL")
}

func TestResultCombiner_LLMSynthesizesReply(t *testing.T) {
	llm := new(mockLanguageModel)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("AAPL looks steady today.", nil)

	node := newResultCombiner(Deps{LLM: llm})
	state := NewState(Request{Query: "how is AAPL doing"}, "req-1")
	state.FinancialData = &DataPayload{Symbol: &Quote{Symbol: "AAPL", Price: decimal.NewFromFloat(190), ChangePct: decimal.NewFromFloat(1.2)}}

	require.NoError(t, node(context.Background(), state))
	assert.Equal(t, "AAPL looks steady today.", state.Combined.Reply)
	assert.False(t, state.Combined.Degraded)
	llm.AssertExpectations(t)
}

func TestResultCombiner_LLMFailureFallsBackToTemplateJoin(t *testing.T) {
	llm := new(mockLanguageModel)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError)

	node := newResultCombiner(Deps{LLM: llm})
	state := NewState(Request{Query: "how is AAPL doing"}, "req-1")
	state.FinancialData = &DataPayload{Symbol: &Quote{Symbol: "AAPL", Price: decimal.NewFromFloat(190), ChangePct: decimal.NewFromFloat(1.2)}}

	require.NoError(t, node(context.Background(), state))
	assert.True(t, state.Combined.Degraded)
	assert.Contains(t, state.Combined.Reply, "AAPL")
}

func TestResultCombiner_CollectsCitationsFromAllSources(t *testing.T) {
	node := newResultCombiner(Deps{})
	state := NewState(Request{}, "req-1")
	state.AnalysisResult = &AnalysisPayload{
		Rating: "hold",
		Sources: []SemanticHit{{Source: "10-K filing", Score: 0.9, Snippet: "revenue up"}},
	}
	state.KnowledgeContext = &KnowledgePayload{
		Explanation: "PER means price to earnings",
		Hits:        []SemanticHit{{Source: "glossary", Score: 0.8, Snippet: "PER definition"}},
	}
	state.NewsData = &NewsPayload{
		Articles: []Article{{Title: "Earnings beat", URL: "https://example.com/a", Relevance: 0.7}},
	}

	require.NoError(t, node(context.Background(), state))
	assert.Len(t, state.Combined.Citations, 3)
}
