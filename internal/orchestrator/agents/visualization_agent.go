package agents

import (
	"context"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// VisualizationAgent renders a chart from DataAgent's quote, per spec
// §4.5's visualization agent. It always runs after DataAgent within a
// stage boundary, never alongside it.
type VisualizationAgent struct {
	log *logger.Logger
}

func NewVisualizationAgent() *VisualizationAgent {
	return &VisualizationAgent{log: logger.Get().With("component", "agent", "agent", "visualization")}
}

func (a *VisualizationAgent) Name() orchestrator.AgentName { return orchestrator.AgentVisualization }

func (a *VisualizationAgent) Process(ctx context.Context, deps orchestrator.Deps, state *orchestrator.State) *orchestrator.AgentResult {
	if deps.Charts == nil {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentVisualization,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindTransientExternal,
				Node:        "VisualizationAgent",
				Message:     "chart renderer not configured",
				Recoverable: true,
			},
		}
	}

	if state.FinancialData == nil || state.FinancialData.Symbol == nil {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentVisualization,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindNoContext,
				Node:        "VisualizationAgent",
				Message:     "no quote available to chart",
				Recoverable: true,
			},
		}
	}

	q := state.FinancialData.Symbol
	series := []orchestrator.SeriesPoint{
		{Label: q.Symbol, Value: toFloat(q.Price)},
	}

	png, err := deps.Charts.Render(ctx, series, orchestrator.ChartBar)
	if err != nil {
		return &orchestrator.AgentResult{
			Agent:   orchestrator.AgentVisualization,
			Success: false,
			Error: &orchestrator.ErrorInfo{
				Kind:        errors.KindRenderFailed,
				Node:        "VisualizationAgent",
				Message:     err.Error(),
				Recoverable: true,
			},
		}
	}

	return &orchestrator.AgentResult{
		Agent:   orchestrator.AgentVisualization,
		Success: true,
		Payload: orchestrator.VisualizationPayload{
			PNG:     png,
			Caption: q.Symbol + " current price",
			Kind:    orchestrator.ChartBar,
		},
	}
}

func toFloat(d decimalLike) float64 {
	f, _ := d.Float64()
	return f
}

// decimalLike narrows shopspring/decimal.Decimal to the one method this
// file needs, so it doesn't have to import the package just for a type
// name.
type decimalLike interface {
	Float64() (float64, bool)
}
