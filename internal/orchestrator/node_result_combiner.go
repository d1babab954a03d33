package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"finassist/pkg/logger"
)

const combinerSystemPrompt = `You are a financial assistant synthesizing several specialist
reports into one coherent reply for the user. Weave the sections together
in this order when present: market data, analysis, news, knowledge. Keep
citations implicit; do not invent numbers that were not given to you.`

// newResultCombiner builds the ResultCombiner node (spec §4.6): fuse
// whichever agent payloads succeeded into one reply. An LLM synthesis
// pass is attempted first in the fixed data→analysis→news→knowledge
// order; a deterministic template fallback produces a degraded-but-never-
// erroring reply when the LLM is unavailable or fails.
func newResultCombiner(deps Deps) NodeFunc {
	log := logger.Get().With("component", "node", "node", "ResultCombiner")

	return func(ctx context.Context, state *State) error {
		if state.ShortCircuit != nil && state.ShortCircuit.Active {
			state.Combined = &Combined{Reply: state.ShortCircuit.Reply}
			return nil
		}

		sections := buildSections(state)
		if len(sections) == 0 {
			state.Combined = &Combined{Reply: templateFallback(state), Degraded: true}
			return nil
		}

		reply, degraded := synthesize(ctx, deps, state.Query, sections, log)
		state.Combined = &Combined{
			Reply:     reply,
			Citations: collectCitations(state),
			Degraded:  degraded,
		}
		return nil
	}
}

// buildSections renders each successful agent's payload into plain text,
// in the fixed data→analysis→news→knowledge order; visualization has no
// text section, it rides along as State.Chart.
func buildSections(state *State) []string {
	var sections []string

	if state.FinancialData != nil && state.FinancialData.Symbol != nil {
		sections = append(sections, formatQuoteSection(state.FinancialData.Symbol))
	}
	if state.AnalysisResult != nil {
		sections = append(sections, formatAnalysisSection(state.AnalysisResult))
	}
	if state.NewsData != nil && len(state.NewsData.Articles) > 0 {
		sections = append(sections, formatNewsSection(state.NewsData))
	}
	if state.KnowledgeContext != nil {
		sections = append(sections, formatKnowledgeSection(state.KnowledgeContext))
	}

	return sections
}

func formatQuoteSection(q *Quote) string {
	return fmt.Sprintf("Market data: %s is at %s (%s%% change).", q.Symbol, q.Price.String(), q.ChangePct.String())
}

func formatAnalysisSection(a *AnalysisPayload) string {
	return fmt.Sprintf("Analysis: rating %s. %s", a.Rating, a.Rationale)
}

func formatNewsSection(n *NewsPayload) string {
	var b strings.Builder
	b.WriteString("Recent news:\n")
	for i, art := range n.Articles {
		if i >= 5 {
			break
		}
		b.WriteString("- ")
		b.WriteString(art.Title)
		b.WriteString("\n")
	}
	return b.String()
}

func formatKnowledgeSection(k *KnowledgePayload) string {
	s := "Explanation: " + k.Explanation
	if k.Caveat != "" {
		s += "\nCaveat: " + k.Caveat
	}
	return s
}

// synthesize asks the LLM to weave the sections into one reply; on
// failure or absence it joins the sections verbatim, which is a strictly
// worse but never-erroring degraded success.
func synthesize(ctx context.Context, deps Deps, query string, sections []string, log *logger.Logger) (string, bool) {
	if deps.LLM == nil {
		return strings.Join(sections, "\n\n"), true
	}

	user := fmt.Sprintf("User question: %s\n\nSpecialist reports:\n%s", query, strings.Join(sections, "\n\n"))
	reply, err := deps.LLM.Complete(ctx, combinerSystemPrompt, user, 0.4, 500)
	if err != nil {
		log.Warnf("result synthesis LLM call failed, falling back to template join: %v", err)
		return strings.Join(sections, "\n\n"), true
	}

	return reply, false
}

func templateFallback(state *State) string {
	return "I couldn't gather enough information to answer that. Could you rephrase or give me a specific symbol?"
}

func collectCitations(state *State) []RetrievedDocument {
	var docs []RetrievedDocument

	if state.AnalysisResult != nil {
		for _, h := range state.AnalysisResult.Sources {
			docs = append(docs, RetrievedDocument{Source: h.Source, Score: h.Score, Snippet: h.Snippet})
		}
	}
	if state.KnowledgeContext != nil {
		for _, h := range state.KnowledgeContext.Hits {
			docs = append(docs, RetrievedDocument{Source: h.Source, Score: h.Score, Snippet: h.Snippet})
		}
	}
	if state.NewsData != nil {
		for _, art := range state.NewsData.Articles {
			docs = append(docs, RetrievedDocument{Source: art.URL, Score: art.Relevance, Snippet: art.Title})
		}
	}

	return docs
}
