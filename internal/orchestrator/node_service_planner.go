package orchestrator

import "context"

// newServicePlanner builds the ServicePlanner node (spec §4.3): turn the
// classification into a concrete stage plan, honoring the invariants that
// analysis never shares a stage with data (analysis depends on data's
// quote), visualization never shares a stage with data (same reason), and
// news/knowledge are always independent of every other agent.
func newServicePlanner() NodeFunc {
	return func(ctx context.Context, state *State) error {
		if state.Analysis == nil {
			return nil // QueryAnalyzer already set an unrecoverable error
		}

		state.Plan = buildPlan(*state.Analysis)
		return nil
	}
}

func buildPlan(a Analysis) *Plan {
	if a.PrimaryIntent == ActionGeneral {
		return &Plan{Mode: PlanSingle, Stages: nil}
	}

	required := make(map[AgentName]bool, len(a.RequiredAgents))
	for _, ag := range a.RequiredAgents {
		required[ag] = true
	}

	switch a.Complexity {
	case ComplexitySimple:
		if required[AgentData] && (required[AgentAnalysis] || required[AgentVisualization]) {
			return &Plan{Mode: PlanSequential, Stages: sequentialStages(required)}
		}
		return &Plan{Mode: PlanSingle, Stages: singleStage(a.RequiredAgents)}
	case ComplexityModerate:
		return &Plan{Mode: PlanSequential, Stages: sequentialStages(required)}
	default: // ComplexityComplex
		return &Plan{Mode: PlanHybrid, Stages: hybridStages(required)}
	}
}

// singleStage runs every required agent concurrently in one stage; used
// when the query only touches independent agents (e.g. news alone, or
// knowledge alone).
func singleStage(agents []AgentName) []Stage {
	if len(agents) == 0 {
		return nil
	}
	return []Stage{{Agents: agents}}
}

// sequentialStages enforces data-before-dependents: data (if needed) runs
// in the first stage, then analysis/visualization (which read data's quote), with
// news/knowledge free to join whichever stage they're required in since
// they depend on nothing.
func sequentialStages(required map[AgentName]bool) []Stage {
	var stages []Stage

	first := Stage{}
	if required[AgentData] {
		first.Agents = append(first.Agents, AgentData)
	}
	if required[AgentNews] {
		first.Agents = append(first.Agents, AgentNews)
	}
	if required[AgentKnowledge] {
		first.Agents = append(first.Agents, AgentKnowledge)
	}
	if len(first.Agents) > 0 {
		stages = append(stages, first)
	}

	var second Stage
	if required[AgentAnalysis] {
		second.Agents = append(second.Agents, AgentAnalysis)
	}
	if required[AgentVisualization] {
		second.Agents = append(second.Agents, AgentVisualization)
	}
	if len(second.Agents) > 0 {
		stages = append(stages, second)
	}

	return stages
}

// hybridStages is the complex-query plan: data runs alone in stage one
// (analysis and visualization both need its quote and must never share a
// stage with it), news/knowledge (mutually independent of everything) fan
// out together in stage two, and analysis runs in the last stage since it also
// wants to observe news/knowledge once they're available. Visualization
// depends only on data, not on analysis, so it joins the trailing stage
// alongside analysis rather than forcing a fourth stage.
func hybridStages(required map[AgentName]bool) []Stage {
	var stages []Stage

	if required[AgentData] {
		stages = append(stages, Stage{Agents: []AgentName{AgentData}})
	}

	var middle Stage
	for _, ag := range []AgentName{AgentNews, AgentKnowledge} {
		if required[ag] {
			middle.Agents = append(middle.Agents, ag)
		}
	}
	if len(middle.Agents) > 0 {
		stages = append(stages, middle)
	}

	var last Stage
	for _, ag := range []AgentName{AgentAnalysis, AgentVisualization} {
		if required[ag] {
			last.Agents = append(last.Agents, ag)
		}
	}
	if len(last.Agents) > 0 {
		stages = append(stages, last)
	}

	return stages
}
