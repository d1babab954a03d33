package orchestrator

import "context"

// newResponder builds the Responder node (spec §4.8): pure formatting, no
// I/O. On an unrecoverable error it renders a user-safe apology instead
// of the error's internal detail, with action_type=error and
// confidence=0; otherwise it assembles the final Response from whatever
// Combined/ConfidenceReport/Chart state accumulated.
func newResponder() NodeFunc {
	return func(ctx context.Context, state *State) error {
		if state.hasUnrecoverableError() {
			state.Response = &Response{
				Reply:      "Sorry, I couldn't process that request. Please try again.",
				ActionType: ActionError,
				Confidence: 0,
				Grade:      GradeF,
			}
			return nil
		}

		resp := &Response{
			ActionType: ActionGeneral,
		}

		if state.Analysis != nil {
			resp.ActionType = state.Analysis.PrimaryIntent
		}
		if state.Combined != nil {
			resp.Reply = state.Combined.Reply
			resp.RetrievedDocuments = state.Combined.Citations
		}
		if state.Chart != nil {
			resp.Chart = state.Chart.PNG
		}
		if state.ConfidenceReport != nil {
			resp.Confidence = state.ConfidenceReport.Score
			resp.Grade = state.ConfidenceReport.Grade
		}
		resp.ActionPayload = buildActionPayload(state)

		state.Response = resp
		return nil
	}
}

// buildActionPayload surfaces the agent-specific structured fields the
// caller might want beyond the prose reply (e.g. a raw rating string for
// analysis, or the resolved symbol for data).
func buildActionPayload(state *State) map[string]interface{} {
	payload := map[string]interface{}{}

	if state.FinancialData != nil && state.FinancialData.Symbol != nil {
		payload["symbol"] = state.FinancialData.Symbol.Symbol
		payload["price"] = state.FinancialData.Symbol.Price.String()
	}
	if state.AnalysisResult != nil {
		payload["rating"] = state.AnalysisResult.Rating
	}
	if len(payload) == 0 {
		return nil
	}
	return payload
}
