package orchestrator

// Deps bundles every injected collaborator the orchestrator's nodes and
// agents consume. Per spec §9 ("global-state LM/clients"), all
// collaborators are wired through this single struct at request-graph
// construction time; there is no package-level singleton state.
type Deps struct {
	LLM           LanguageModel
	Symbols       SymbolLookup
	Market        MarketData
	Semantic      SemanticIndex
	NewsGraph     NewsGraph
	NewsFeed      NewsFeed
	Translator    Translator
	Charts        ChartRenderer
	Tracer        Tracer
	Embedder      Embedder
	Cache         Cache

	// Agents is the worker-agent registry ParallelExecutor dispatches into,
	// keyed by the names ServicePlanner emitted in Plan.Stages. Constructed
	// outside this package (see internal/orchestrator/agents) and supplied
	// whole at Orchestrator construction time.
	Agents map[AgentName]Agent
}

// Embedder turns text into the vector NewsGraph.Similar expects. It is
// not one of spec §6's named capabilities but is required to bridge
// NewsAgent's text query onto NewsGraph's embedding-similarity
// interface; the embeddings adapter backs it.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// Cache is an optional read-through cache for symbol resolutions and
// quotes. A nil Cache disables caching; DataAgent must work without one.
type Cache interface {
	GetQuote(symbol string) (*Quote, bool)
	SetQuote(symbol string, quote *Quote)
	GetSymbol(text string) (string, bool)
	SetSymbol(text string, symbol string)
}
