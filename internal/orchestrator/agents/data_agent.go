package agents

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// DataAgent resolves a symbol and fetches its current quote, per spec
// §4.5's data agent. A simple, data-only query that resolves cleanly
// raises State.ShortCircuit, so no further stages run and
// ResultCombiner/ConfidenceCalculator pass its one-line reply through
// without an LLM call; those two nodes still run before Responder.
type DataAgent struct {
	log *logger.Logger
}

func NewDataAgent() *DataAgent {
	return &DataAgent{log: logger.Get().With("component", "agent", "agent", "data")}
}

func (a *DataAgent) Name() orchestrator.AgentName { return orchestrator.AgentData }

func (a *DataAgent) Process(ctx context.Context, deps orchestrator.Deps, state *orchestrator.State) *orchestrator.AgentResult {
	symbol, err := a.resolveSymbol(ctx, deps, state.Query)
	if err != nil {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentData,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindOf(err),
				Node:        "DataAgent",
				Message:     err.Error(),
				Recoverable: true,
			},
		}
	}

	quote, cached := a.lookupQuote(deps, symbol)
	if !cached {
		quote, err = deps.Market.Quote(ctx, symbol)
		if err != nil {
			return &orchestrator.AgentResult{
				Agent:   orchestrator.AgentData,
				Success: false,
				Error: &orchestrator.ErrorInfo{
					Kind:        errors.KindOf(err),
					Node:        "DataAgent",
					Message:     err.Error(),
					Recoverable: true,
				},
			}
		}
		if deps.Cache != nil {
			deps.Cache.SetQuote(symbol, quote)
		}
	}

	if isSimpleDataOnly(state) {
		state.ShortCircuit = &orchestrator.ShortCircuit{
			Active: true,
			Reply:  formatQuoteReply(quote),
		}
	}

	return &orchestrator.AgentResult{
		Agent:   orchestrator.AgentData,
		Success: true,
		Payload: orchestrator.DataPayload{Symbol: quote},
	}
}

func (a *DataAgent) resolveSymbol(ctx context.Context, deps orchestrator.Deps, query string) (string, error) {
	if deps.Cache != nil {
		if symbol, ok := deps.Cache.GetSymbol(query); ok {
			return symbol, nil
		}
	}

	if deps.Symbols == nil {
		return "", errors.Wrap(errors.ErrSymbolNotFound, "no symbol lookup configured")
	}

	symbol, ok, err := deps.Symbols.Resolve(ctx, query)
	if err != nil {
		return "", errors.Wrap(errors.ErrTransientExternal, err.Error())
	}
	if !ok {
		return "", errors.Wrap(errors.ErrSymbolNotFound, "no ticker matched the query")
	}

	if deps.Cache != nil {
		deps.Cache.SetSymbol(query, symbol)
	}
	return symbol, nil
}

func (a *DataAgent) lookupQuote(deps orchestrator.Deps, symbol string) (*orchestrator.Quote, bool) {
	if deps.Cache == nil {
		return nil, false
	}
	return deps.Cache.GetQuote(symbol)
}

// isSimpleDataOnly reports whether this request's whole plan is a single
// data lookup, the only shape DataAgent is allowed to short-circuit.
func isSimpleDataOnly(state *orchestrator.State) bool {
	if state.Analysis == nil {
		return false
	}
	return state.Analysis.PrimaryIntent == orchestrator.ActionData &&
		state.Analysis.Complexity == orchestrator.ComplexitySimple &&
		len(state.Analysis.RequiredAgents) == 1
}

func formatQuoteReply(q *orchestrator.Quote) string {
	if q == nil {
		return "No quote available."
	}
	sign := "+"
	if q.ChangePct.IsNegative() {
		sign = ""
	}
	price := humanize.Commaf(q.Price.InexactFloat64())
	return fmt.Sprintf("%s: %s (%s%s%%)", q.Symbol, price, sign, q.ChangePct.String())
}
