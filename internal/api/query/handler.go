// Package query exposes the orchestrator over HTTP: a single endpoint
// that accepts a natural-language financial question and returns the
// synthesized response, grounded on the teacher's API handler style
// (plain net/http, JSON in/out, no router dependency).
package query

import (
	"encoding/json"
	"net/http"
	"strings"

	"finassist/internal/orchestrator"
	"finassist/pkg/logger"
)

// Handler serves the query endpoint over the orchestrator.
type Handler struct {
	orch *orchestrator.Orchestrator
	log  *logger.Logger
}

func New(orch *orchestrator.Orchestrator, log *logger.Logger) *Handler {
	return &Handler{orch: orch, log: log}
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type documentResponse struct {
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

type queryResponse struct {
	Reply              string                 `json:"reply"`
	ActionType         string                 `json:"action_type"`
	ActionPayload      map[string]interface{} `json:"action_payload,omitempty"`
	Chart              []byte                 `json:"chart,omitempty"`
	RetrievedDocuments []documentResponse     `json:"retrieved_documents,omitempty"`
	Confidence         float64                `json:"confidence"`
	Grade              string                 `json:"grade"`
}

// ServeHTTP handles POST /query.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	resp, err := h.orch.Orchestrate(r.Context(), orchestrator.Request{
		Query:     req.Query,
		SessionID: req.SessionID,
		UserID:    req.UserID,
	})
	if err != nil {
		h.log.Errorf("orchestrate failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := queryResponse{
		Reply:         resp.Reply,
		ActionType:    string(resp.ActionType),
		ActionPayload: resp.ActionPayload,
		Chart:         resp.Chart,
		Confidence:    resp.Confidence,
		Grade:         string(resp.Grade),
	}
	for _, d := range resp.RetrievedDocuments {
		out.RetrievedDocuments = append(out.RetrievedDocuments, documentResponse{
			Source: d.Source, Score: d.Score, Snippet: d.Snippet,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}
