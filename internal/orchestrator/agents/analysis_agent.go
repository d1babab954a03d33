package agents

import (
	"context"
	"fmt"
	"strings"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

const analysisSystemPrompt = `You are a financial analyst. Given a quote snapshot and retrieved
context, respond with a short rating (one of: strong_buy, buy, hold, sell,
strong_sell) followed by a one-paragraph rationale. Never give individualized
investment advice; frame the rating as informational.`

// AnalysisAgent produces an investment-judgement style rating and
// rationale from DataAgent's quote plus semantic context, per spec §4.5.
// The planner puts it in a later stage than DataAgent, never alongside it;
// when FinancialData holds no quote it fails with no_context.
type AnalysisAgent struct {
	log *logger.Logger
}

func NewAnalysisAgent() *AnalysisAgent {
	return &AnalysisAgent{log: logger.Get().With("component", "agent", "agent", "analysis")}
}

func (a *AnalysisAgent) Name() orchestrator.AgentName { return orchestrator.AgentAnalysis }

func (a *AnalysisAgent) Process(ctx context.Context, deps orchestrator.Deps, state *orchestrator.State) *orchestrator.AgentResult {
	if state.FinancialData == nil || state.FinancialData.Symbol == nil {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentAnalysis,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindNoContext,
				Node:        "AnalysisAgent",
				Message:     "no quote available to analyze",
				Recoverable: true,
			},
		}
	}

	var hits []orchestrator.SemanticHit
	if deps.Semantic != nil {
		found, err := deps.Semantic.Search(ctx, state.Query, 5, 0)
		if err != nil {
			a.log.Warnf("semantic search failed, analyzing without context: %v", err)
		} else {
			hits = found
		}
	}

	rating, rationale := a.judge(ctx, deps, state.FinancialData.Symbol, hits)

	return &orchestrator.AgentResult{
		Agent:   orchestrator.AgentAnalysis,
		Success: true,
		Payload: orchestrator.AnalysisPayload{
			Rating:     rating,
			Rationale:  rationale,
			Sources:    hits,
			Disclaimer: orchestrator.InvestmentDisclaimer,
		},
	}
}

func (a *AnalysisAgent) judge(ctx context.Context, deps orchestrator.Deps, q *orchestrator.Quote, hits []orchestrator.SemanticHit) (string, string) {
	if deps.LLM == nil {
		return "hold", deterministicRationale(q)
	}

	user := fmt.Sprintf("Symbol: %s\nPrice: %s\nChange: %s%%\nPER: %s\nROE: %s\nContext:\n%s",
		q.Symbol, q.Price.String(), q.ChangePct.String(), q.PER.String(), q.ROE.String(), joinSnippets(hits))

	raw, err := deps.LLM.Complete(ctx, analysisSystemPrompt, user, 0.3, 300)
	if err != nil {
		a.log.Warnf("analysis LLM call failed, falling back to deterministic rating: %v", err)
		return "hold", deterministicRationale(q)
	}

	return splitRatingAndRationale(raw)
}

var knownRatings = []string{"strong_buy", "buy", "hold", "strong_sell", "sell"}

func splitRatingAndRationale(raw string) (string, string) {
	lower := strings.ToLower(raw)
	for _, r := range knownRatings {
		if strings.Contains(lower, r) {
			return r, strings.TrimSpace(raw)
		}
	}
	return "hold", strings.TrimSpace(raw)
}

func joinSnippets(hits []orchestrator.SemanticHit) string {
	var b strings.Builder
	for _, h := range hits {
		b.WriteString("- ")
		b.WriteString(h.Snippet)
		b.WriteString("\n")
	}
	return b.String()
}

func deterministicRationale(q *orchestrator.Quote) string {
	return fmt.Sprintf(
		"%s is trading at %s with a %s%% move; no language model is currently available to judge momentum or valuation context.",
		q.Symbol, q.Price.String(), q.ChangePct.String(),
	)
}
