package agents

import (
	"context"
	"fmt"
	"strings"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

const knowledgeSystemPrompt = `You are a financial educator. Given a term or concept and retrieved
reference snippets, explain it plainly in two or three sentences, then give
one short example. Add a one-line caveat if the term is commonly
misunderstood.`

// KnowledgeAgent answers definitional/conceptual questions by grounding an
// LLM explanation in semantic-search hits, per spec §4.5's knowledge
// agent. With no language model configured it falls back to returning the
// raw retrieved snippets.
type KnowledgeAgent struct {
	log *logger.Logger
}

func NewKnowledgeAgent() *KnowledgeAgent {
	return &KnowledgeAgent{log: logger.Get().With("component", "agent", "agent", "knowledge")}
}

func (a *KnowledgeAgent) Name() orchestrator.AgentName { return orchestrator.AgentKnowledge }

func (a *KnowledgeAgent) Process(ctx context.Context, deps orchestrator.Deps, state *orchestrator.State) *orchestrator.AgentResult {
	if deps.Semantic == nil {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentKnowledge,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindTransientExternal,
				Node:        "KnowledgeAgent",
				Message:     "semantic index not configured",
				Recoverable: true,
			},
		}
	}

	hits, err := deps.Semantic.Search(ctx, state.Query, 3, 0)
	if err != nil {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentKnowledge,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindOf(err),
				Node:        "KnowledgeAgent",
				Message:     err.Error(),
				Recoverable: true,
			},
		}
	}

	if len(hits) == 0 {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentKnowledge,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindNoContext,
				Node:        "KnowledgeAgent",
				Message:     "no reference material found for this term",
				Recoverable: true,
			},
		}
	}

	explanation, caveat := a.explain(ctx, deps, state.Query, hits)

	return &orchestrator.AgentResult{
		Agent:   orchestrator.AgentKnowledge,
		Success: true,
		Payload: orchestrator.KnowledgePayload{
			Explanation: explanation,
			Caveat:      caveat,
			Hits:        hits,
		},
	}
}

func (a *KnowledgeAgent) explain(ctx context.Context, deps orchestrator.Deps, query string, hits []orchestrator.SemanticHit) (string, string) {
	if deps.LLM == nil {
		return joinSnippets(hits), ""
	}

	user := fmt.Sprintf("Term or question: %s\nReference material:\n%s", query, joinSnippets(hits))
	raw, err := deps.LLM.Complete(ctx, knowledgeSystemPrompt, user, 0.2, 250)
	if err != nil {
		a.log.Warnf("knowledge LLM call failed, returning raw snippets: %v", err)
		return joinSnippets(hits), ""
	}

	explanation, caveat, _ := strings.Cut(raw, "Caveat:")
	return strings.TrimSpace(explanation), strings.TrimSpace(caveat)
}
