package orchestrator

import "strings"

// keywordsByIntent mirrors the original workflow's fixed-priority keyword
// map (query_classifier_service.py's _classify_with_keywords), used only
// when the language model is unavailable or its output fails to parse
// after one retry (spec §4.2). Priority order matters: visualization >
// news > knowledge > analysis > data > general.
var keywordsByIntent = []struct {
	intent   ActionType
	keywords []string
}{
	{ActionVisualization, []string{"차트", "그래프", "시각화", "캔들", "그림", "chart", "graph"}},
	{ActionNews, []string{"뉴스", "소식", "이슈", "공시", "news"}},
	{ActionKnowledge, []string{"뜻", "이해", "설명", "의미", "무엇", "뭐야", "정의", "definition", "what is"}},
	{ActionAnalysis, []string{"분석", "전망", "투자", "추천", "의견", "전략", "analysis", "investment"}},
	{ActionData, []string{"주가", "가격", "현재가", "시세", "주식", "price", "quote"}},
}

// investmentKeywords flags a query as asking for an investment judgement,
// independent of which primary intent it lands on.
var investmentKeywords = []string{"투자", "매수", "매도", "추천", "전략", "invest", "buy", "sell"}

// classifyByKeywords is the deterministic fallback classifier: a fixed
// keyword-priority scan, refined by whether a stock name/symbol is
// present in the query (data-vs-analysis disambiguation, per the
// original's has_stock_name branching).
func classifyByKeywords(query string, hasSymbol bool) ActionType {
	lower := strings.ToLower(query)

	for _, bucket := range keywordsByIntent {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				if bucket.intent == ActionAnalysis && !hasSymbol {
					// "분석" alone with no symbol in scope has nothing to
					// analyze; the original demotes this to general.
					return ActionGeneral
				}
				return bucket.intent
			}
		}
	}

	if hasSymbol {
		return ActionData
	}
	return ActionGeneral
}

// isInvestmentQuery reports whether the query asks for an investment
// judgement, used to populate Analysis.IsInvestment regardless of intent.
func isInvestmentQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range investmentKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// requiredAgentsFor maps a primary intent to the minimal agent set the
// planner needs, per spec §4.3's stage-construction invariants.
func requiredAgentsFor(intent ActionType) []AgentName {
	switch intent {
	case ActionData:
		return []AgentName{AgentData}
	case ActionAnalysis:
		return []AgentName{AgentData, AgentAnalysis}
	case ActionNews:
		return []AgentName{AgentNews}
	case ActionKnowledge:
		return []AgentName{AgentKnowledge}
	case ActionVisualization:
		return []AgentName{AgentData, AgentVisualization}
	default:
		return nil
	}
}

func nextAgentFor(intent ActionType) AgentName {
	agents := requiredAgentsFor(intent)
	if len(agents) == 0 {
		return ""
	}
	return agents[0]
}
