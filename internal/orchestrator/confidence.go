package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"finassist/pkg/logger"
)

const confidenceSystemPrompt = `Score the reply below on four dimensions, each 0-25:
completeness (did it answer what was asked), consistency (do the numbers
and claims agree with each other), accuracy (do figures match the
supplied source data), usefulness (would a reader walk away informed).
Return only JSON: {"completeness":0,"consistency":0,"accuracy":0,"usefulness":0}`

type confidenceScores struct {
	Completeness float64 `json:"completeness"`
	Consistency  float64 `json:"consistency"`
	Accuracy     float64 `json:"accuracy"`
	Usefulness   float64 `json:"usefulness"`
}

// newConfidenceCalculator builds the ConfidenceCalculator node (spec
// §4.7): four equally-weighted 0..25 subscores, LLM-scored against a
// strict JSON schema, summed and normalized to [0,1], then mapped to a
// letter grade. Malformed LLM output never fails the request — it
// degrades to a fixed 0.6/C score (15 on each subscore) with a warning
// recorded for the trace.
func newConfidenceCalculator(deps Deps, cfg Config) NodeFunc {
	log := logger.Get().With("component", "node", "node", "ConfidenceCalculator")

	return func(ctx context.Context, state *State) error {
		if state.ShortCircuit != nil && state.ShortCircuit.Active {
			state.ConfidenceReport = &ConfidenceReport{
				Score: 1, Grade: GradeA,
				Subscores: ConfidenceSubscores{Completeness: 25, Consistency: 25, Accuracy: 25, Usefulness: 25},
			}
			return nil
		}

		if state.Combined == nil {
			return nil
		}

		scores, warnings := score(ctx, deps, state, log)
		warnings = append(warnings, detectWarnings(state)...)
		total := clamp25(scores.Completeness) + clamp25(scores.Consistency) + clamp25(scores.Accuracy) + clamp25(scores.Usefulness)
		normalized := total / 100

		state.ConfidenceReport = &ConfidenceReport{
			Score: normalized,
			Grade: GradeForConfidence(normalized, cfg.ConfidenceThresholds),
			Subscores: ConfidenceSubscores{
				Completeness: clamp25(scores.Completeness),
				Consistency:  clamp25(scores.Consistency),
				Accuracy:     clamp25(scores.Accuracy),
				Usefulness:   clamp25(scores.Usefulness),
			},
			Warnings: warnings,
		}
		return nil
	}
}

func score(ctx context.Context, deps Deps, state *State, log *logger.Logger) (confidenceScores, []string) {
	if state.Combined.Degraded {
		return confidenceScores{Completeness: 12, Consistency: 18, Accuracy: 15, Usefulness: 12},
			[]string{"degraded_synthesis"}
	}

	if deps.LLM == nil {
		return confidenceScores{Completeness: 18, Consistency: 18, Accuracy: 18, Usefulness: 18}, nil
	}

	user := fmt.Sprintf("Question: %s\n\nReply:\n%s", state.Query, state.Combined.Reply)
	raw, err := deps.LLM.Complete(ctx, confidenceSystemPrompt, user, 0, 100)
	if err != nil {
		log.Warnf("confidence scoring LLM call failed: %v", err)
		return confidenceScores{Completeness: 15, Consistency: 15, Accuracy: 15, Usefulness: 15}, []string{"score_parse_fallback"}
	}

	var out confidenceScores
	if parseErr := json.Unmarshal([]byte(extractJSONObject(raw)), &out); parseErr != nil {
		log.Warnf("confidence score JSON malformed, using fallback: %v", parseErr)
		return confidenceScores{Completeness: 15, Consistency: 15, Accuracy: 15, Usefulness: 15}, []string{"score_parse_fallback"}
	}

	return out, nil
}

// detectWarnings implements spec §4.7's four warning triggers: any agent
// failed, no news was found, the required disclaimer is missing from the
// reply, or the reply is under 80 characters. These are independent of the
// LLM-scored subscores and never change the numeric confidence.
func detectWarnings(state *State) []string {
	var warnings []string

	for _, r := range state.AgentResults {
		if r != nil && !r.Success {
			warnings = append(warnings, "agent_failed")
			break
		}
	}

	if state.NewsData == nil || len(state.NewsData.Articles) == 0 {
		warnings = append(warnings, "news_count_zero")
	}

	if !strings.Contains(state.Combined.Reply, InvestmentDisclaimer) {
		warnings = append(warnings, "disclaimer_missing")
	}

	if len(state.Combined.Reply) < 80 {
		warnings = append(warnings, "reply_too_short")
	}

	return warnings
}

func clamp25(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 25 {
		return 25
	}
	return v
}
