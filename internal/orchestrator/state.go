package orchestrator

import (
	"time"

	"finassist/pkg/errors"
)

// AgentName identifies a worker-agent role. ParallelExecutor and the
// planner deal only in these names; agent-specific payload types live in
// AgentResult.Payload and are interpreted by the nodes that consume them.
type AgentName string

const (
	AgentData          AgentName = "data"
	AgentAnalysis      AgentName = "analysis"
	AgentNews          AgentName = "news"
	AgentKnowledge     AgentName = "knowledge"
	AgentVisualization AgentName = "visualization"
)

// Complexity is QueryAnalyzer's estimate of how much work a query needs.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// PlanMode is ServicePlanner's chosen execution strategy.
type PlanMode string

const (
	PlanSingle     PlanMode = "single"
	PlanSequential PlanMode = "sequential"
	PlanHybrid     PlanMode = "hybrid"
)

// Analysis is QueryAnalyzer's output, written once and never overwritten.
type Analysis struct {
	PrimaryIntent   ActionType
	Complexity      Complexity
	RequiredAgents  []AgentName
	Confidence      float64
	IsInvestment    bool
	NextAgent       AgentName
}

// Stage is an ordered unit of the plan: a set of agent names that run
// concurrently. Agents within a stage must be independent of each other.
type Stage struct {
	Agents []AgentName
}

// Plan is ServicePlanner's output.
type Plan struct {
	Mode         PlanMode
	Stages       []Stage
	EstimatedMs  int64
}

// ErrorInfo is the single error slot on State. Once Recoverable=false is
// set, only ErrorHandler and Responder may run afterward.
type ErrorInfo struct {
	Kind        errors.Kind
	Node        string
	Message     string
	Recoverable bool
}

// TraceEntry records one node invocation. The runtime appends these;
// agents never append directly.
type TraceEntry struct {
	Node    string
	Start   time.Time
	End     time.Time
	Outcome string // "ok", "error", "skipped"
}

// AgentResult is the uniform shape every worker-agent returns, regardless
// of its payload's concrete type, so ParallelExecutor never needs to know
// agent-specific types.
type AgentResult struct {
	Agent     AgentName
	Success   bool
	Payload   interface{}
	Error     *ErrorInfo
	ElapsedMs int64
}

// DataPayload is DataAgent's typed output, installed at
// State.AgentResults[AgentData].Payload.
type DataPayload struct {
	Symbol *Quote
}

// InvestmentDisclaimer is the required disclaimer text AnalysisAgent
// attaches to every rating, and ConfidenceCalculator checks the combined
// reply for (spec §4.7's "disclaimer missing" warning).
const InvestmentDisclaimer = "This is informational analysis, not individualized investment advice."

// AnalysisPayload is AnalysisAgent's typed output.
type AnalysisPayload struct {
	Rating     string // one of a five-point scale, e.g. "strong_buy".."strong_sell"
	Rationale  string
	Sources    []SemanticHit
	Disclaimer string
}

// NewsPayload is NewsAgent's typed output: a deduplicated, scored,
// merged article list.
type NewsPayload struct {
	Articles []Article
}

// KnowledgePayload is KnowledgeAgent's typed output.
type KnowledgePayload struct {
	Explanation string
	Examples    []string
	Caveat      string
	Hits        []SemanticHit
}

// VisualizationPayload is VisualizationAgent's typed output.
type VisualizationPayload struct {
	PNG     []byte
	Caption string
	Kind    ChartKind
}

// ShortCircuit marks that DataAgent produced a cheap, confident answer:
// ParallelExecutor runs no further stages, and ResultCombiner and
// ConfidenceCalculator pass Reply through (scored 1.0/A) without an LLM
// call. Both nodes still run and appear in the trace before Responder.
type ShortCircuit struct {
	Active bool
	Reply  string
}

// Combined is ResultCombiner's fused textual reply plus its citations.
type Combined struct {
	Reply     string
	Citations []RetrievedDocument
	Degraded  bool // true when the LLM synthesis fell back to a template
}

// ConfidenceReport is ConfidenceCalculator's output.
type ConfidenceReport struct {
	Score      float64
	Grade      Grade
	Subscores  ConfidenceSubscores
	Warnings   []string
}

// ConfidenceSubscores are the four 0..25 rubric components (spec §4.7).
type ConfidenceSubscores struct {
	Completeness float64
	Consistency  float64
	Accuracy     float64
	Usefulness   float64
}

// ConfidenceThresholds are the grade cutoffs (spec §3, configurable per
// §6 confidence_thresholds).
type ConfidenceThresholds struct {
	A, B, C, D float64
}

// DefaultConfidenceThresholds matches the spec's fixed table.
func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{A: 0.90, B: 0.75, C: 0.60, D: 0.45}
}

// State is the per-request record carried through the graph. Nodes append
// fields keyed by role; they never overwrite another node's fields, per
// the append-only data-flow rule in spec §3.
type State struct {
	// entry
	Query     string
	SessionID string
	UserID    string
	RequestID string

	// QueryAnalyzer
	Analysis *Analysis

	// ServicePlanner
	Plan *Plan

	// ParallelExecutor
	AgentResults map[AgentName]*AgentResult

	// worker-agent shared payloads, mirrored from AgentResults for
	// convenient typed access by downstream nodes
	FinancialData   *DataPayload
	NewsData        *NewsPayload
	AnalysisResult  *AnalysisPayload
	KnowledgeContext *KnowledgePayload
	Chart           *VisualizationPayload

	// DataAgent
	ShortCircuit *ShortCircuit

	// ResultCombiner
	Combined *Combined

	// ConfidenceCalculator
	ConfidenceReport *ConfidenceReport

	// any node
	Error *ErrorInfo

	// Responder
	Response *Response

	// runtime
	Trace []TraceEntry
}

// NewState creates the initial record for a request.
func NewState(req Request, requestID string) *State {
	return &State{
		Query:        req.Query,
		SessionID:    req.SessionID,
		UserID:       req.UserID,
		RequestID:    requestID,
		AgentResults: make(map[AgentName]*AgentResult),
		Trace:        make([]TraceEntry, 0, 8),
	}
}

// appendTrace is called only by the graph runtime (single-writer
// discipline for the Trace field).
func (s *State) appendTrace(entry TraceEntry) {
	s.Trace = append(s.Trace, entry)
}

// setAgentResult installs a result for agent K, honoring the invariant
// that once K appears in AgentResults no later write may replace it.
func (s *State) setAgentResult(name AgentName, result *AgentResult) {
	if _, exists := s.AgentResults[name]; exists {
		return
	}
	s.AgentResults[name] = result
}

// hasUnrecoverableError reports whether State.Error is set with
// Recoverable=false.
func (s *State) hasUnrecoverableError() bool {
	return s.Error != nil && !s.Error.Recoverable
}
