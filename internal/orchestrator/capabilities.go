package orchestrator

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// This file defines the narrow collaborator interfaces the orchestrator
// consumes (spec §6). Each is satisfied by an adapter under
// internal/adapters/*; the orchestrator package never imports a concrete
// adapter type, only these interfaces, so fakes can stand in for tests.

// LanguageModel is the injected LLM capability used for classification,
// synthesis, and judgement.
type LanguageModel interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

// SymbolLookup resolves free text to a tradable ticker symbol.
type SymbolLookup interface {
	Resolve(ctx context.Context, text string) (symbol string, ok bool, err error)
}

// Quote is the market snapshot MarketData returns for a single symbol.
type Quote struct {
	Symbol     string
	Price      decimal.Decimal
	ChangePct  decimal.Decimal
	Volume     decimal.Decimal
	PER        decimal.Decimal
	PBR        decimal.Decimal
	ROE        decimal.Decimal
	MarketCap  decimal.Decimal
	Sector     string
	AsOf       time.Time
}

// MarketData fetches a current quote for a resolved symbol.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// SemanticHit is a single scored snippet returned by SemanticIndex or
// surfaced to the caller as a RetrievedDocument.
type SemanticHit struct {
	Source  string
	Score   float64
	Snippet string
}

// SemanticIndex performs vector/keyword search over the knowledge corpus.
type SemanticIndex interface {
	Search(ctx context.Context, text string, topK int, minScore float64) ([]SemanticHit, error)
}

// Article is a single news item, whichever collaborator produced it.
type Article struct {
	Title       string
	URL         string
	PublishedAt time.Time
	Language    string
	Body        string
	Source      string
	Relevance   float64
}

// NewsGraph finds articles similar to an embedding from the news knowledge
// graph.
type NewsGraph interface {
	Similar(ctx context.Context, embedding []float32, topK int, minScore float64) ([]Article, error)
}

// NewsFeed fetches recent articles for a set of keywords from a live feed.
type NewsFeed interface {
	Fetch(ctx context.Context, keywords []string, limit int) ([]Article, error)
}

// Translator renders text in a target language.
type Translator interface {
	Translate(ctx context.Context, text string, targetLang string) (string, error)
}

// ChartKind enumerates the chart shapes VisualizationAgent can request.
type ChartKind string

const (
	ChartLine        ChartKind = "line"
	ChartBar         ChartKind = "bar"
	ChartCandlestick ChartKind = "candlestick"
)

// SeriesPoint is one observation in a chart series.
type SeriesPoint struct {
	Label string
	Open  float64
	High  float64
	Low   float64
	Close float64
	Value float64
}

// ChartRenderer draws a PNG from a series.
type ChartRenderer interface {
	Render(ctx context.Context, series []SeriesPoint, kind ChartKind) ([]byte, error)
}

// Span is a single observability event; Tracer.Emit must never raise and
// must not block the caller.
type Span struct {
	Node      string
	RequestID string
	SessionID string
	Start     time.Time
	End       time.Time
	Outcome   string
	Attrs     map[string]interface{}
}

// Tracer emits spans to whatever observability sink is configured.
type Tracer interface {
	Emit(span Span)
}
