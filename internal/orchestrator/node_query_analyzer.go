package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

const queryAnalyzerSystemPrompt = `You are a financial query classifier. Given a user's question, return a
single JSON object with exactly these fields and nothing else:
{"primary_intent": "data|analysis|news|knowledge|visualization|general",
 "complexity": "simple|moderate|complex",
 "required_agents": ["data","analysis","news","knowledge","visualization"],
 "confidence": 0.0,
 "is_investment": false}
Only include agent names that are actually needed to answer the question.`

// llmClassification is the strict schema the language model must return.
type llmClassification struct {
	PrimaryIntent  string   `json:"primary_intent"`
	Complexity     string   `json:"complexity"`
	RequiredAgents []string `json:"required_agents"`
	Confidence     float64  `json:"confidence"`
	IsInvestment   bool     `json:"is_investment"`
}

// newQueryAnalyzer builds the QueryAnalyzer node (spec §4.2): classify
// intent, complexity, and the agent set, LLM-primary with a deterministic
// keyword fallback.
func newQueryAnalyzer(deps Deps) NodeFunc {
	log := logger.Get().With("component", "node", "node", "QueryAnalyzer")

	return func(ctx context.Context, state *State) error {
		trimmed := strings.TrimSpace(state.Query)
		if trimmed == "" {
			state.Error = &ErrorInfo{
				Kind:        errors.KindInvalidInput,
				Node:        "QueryAnalyzer",
				Message:     "empty query",
				Recoverable: false,
			}
			return nil
		}

		analysis := classifyWithLLM(ctx, deps, trimmed, log)
		if analysis == nil {
			hasSymbol := false
			if deps.Symbols != nil {
				if _, ok, err := deps.Symbols.Resolve(ctx, trimmed); err == nil {
					hasSymbol = ok
				}
			}
			intent := classifyByKeywords(trimmed, hasSymbol)
			analysis = &Analysis{
				PrimaryIntent:  intent,
				Complexity:     ComplexitySimple,
				RequiredAgents: requiredAgentsFor(intent),
				Confidence:     0.6,
				IsInvestment:   isInvestmentQuery(trimmed),
				NextAgent:      nextAgentFor(intent),
			}
		}

		state.Analysis = analysis
		return nil
	}
}

// classifyWithLLM asks the language model for a structured classification,
// with one re-parse attempt on malformed output, per spec §4.2. Returns
// nil if the LLM is unavailable or both attempts fail to parse.
func classifyWithLLM(ctx context.Context, deps Deps, query string, log *logger.Logger) *Analysis {
	if deps.LLM == nil {
		return nil
	}

	var last error
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := deps.LLM.Complete(ctx, queryAnalyzerSystemPrompt, query, 0.1, 256)
		if err != nil {
			last = err
			log.Warnf("classification LLM call failed (attempt %d): %v", attempt+1, err)
			continue
		}

		parsed, ok := parseClassification(raw)
		if ok {
			return toAnalysis(parsed)
		}
		last = errors.New("malformed classification output")
	}

	log.Warnf("falling back to keyword classification: %v", last)
	return nil
}

func parseClassification(raw string) (llmClassification, bool) {
	raw = extractJSONObject(raw)
	var out llmClassification
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, false
	}
	if out.PrimaryIntent == "" || out.Complexity == "" {
		return out, false
	}
	return out, true
}

// extractJSONObject trims any prose the model added around the JSON
// object, taking the first {...} span.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

var validIntents = map[string]ActionType{
	"data":          ActionData,
	"analysis":      ActionAnalysis,
	"news":          ActionNews,
	"knowledge":     ActionKnowledge,
	"visualization": ActionVisualization,
	"general":       ActionGeneral,
}

var validComplexities = map[string]Complexity{
	"simple":   ComplexitySimple,
	"moderate": ComplexityModerate,
	"complex":  ComplexityComplex,
}

func toAnalysis(c llmClassification) *Analysis {
	intent, ok := validIntents[strings.ToLower(c.PrimaryIntent)]
	if !ok {
		intent = ActionGeneral // unknown intent coerces to general, per spec edge-case rule
	}

	complexity, ok := validComplexities[strings.ToLower(c.Complexity)]
	if !ok {
		complexity = ComplexitySimple
	}

	confidence := c.Confidence
	if confidence > 1 {
		confidence = 1 // clamp, per spec edge-case rule
	}
	if confidence < 0 {
		confidence = 0
	}

	agents := make([]AgentName, 0, len(c.RequiredAgents))
	for _, a := range c.RequiredAgents {
		switch AgentName(a) {
		case AgentData, AgentAnalysis, AgentNews, AgentKnowledge, AgentVisualization:
			agents = append(agents, AgentName(a))
		}
	}
	if len(agents) == 0 {
		agents = requiredAgentsFor(intent)
	}

	return &Analysis{
		PrimaryIntent:  intent,
		Complexity:     complexity,
		RequiredAgents: agents,
		Confidence:     confidence,
		IsInvestment:   c.IsInvestment,
		NextAgent:      nextAgentFor(intent),
	}
}
