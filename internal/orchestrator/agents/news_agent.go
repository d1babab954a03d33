package agents

import (
	"context"
	"sort"
	"strings"
	"time"

	"finassist/internal/orchestrator"
	"finassist/pkg/logger"
)

// NewsAgent merges the knowledge-graph's embedding-similar articles with
// a live feed fetch, deduplicates by URL and near-duplicate title, and
// ranks the remainder by a blend of relevance and recency, per spec
// §4.5's news agent.
type NewsAgent struct {
	log *logger.Logger
}

func NewNewsAgent() *NewsAgent {
	return &NewsAgent{log: logger.Get().With("component", "agent", "agent", "news")}
}

func (a *NewsAgent) Name() orchestrator.AgentName { return orchestrator.AgentNews }

func (a *NewsAgent) Process(ctx context.Context, deps orchestrator.Deps, state *orchestrator.State) *orchestrator.AgentResult {
	var articles []orchestrator.Article

	if deps.NewsGraph != nil && deps.Embedder != nil {
		if vec, err := deps.Embedder.Embed(state.Query); err != nil {
			a.log.Warnf("embedding failed, skipping graph similarity search: %v", err)
		} else if found, err := deps.NewsGraph.Similar(ctx, vec, 10, 0); err != nil {
			a.log.Warnf("news graph search failed: %v", err)
		} else {
			articles = append(articles, found...)
		}
	}

	if deps.NewsFeed != nil {
		keywords := keywordsFromQuery(state.Query)
		if found, err := deps.NewsFeed.Fetch(ctx, keywords, 10); err != nil {
			a.log.Warnf("news feed fetch failed: %v", err)
		} else {
			articles = append(articles, found...)
		}
	}

	deduped := dedupeArticles(articles, 0.9)
	ranked := rankArticles(deduped)

	topK := 10
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return &orchestrator.AgentResult{
		Agent:   orchestrator.AgentNews,
		Success: true,
		Payload: orchestrator.NewsPayload{Articles: ranked},
	}
}

func keywordsFromQuery(query string) []string {
	fields := strings.Fields(query)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// dedupeArticles removes exact URL duplicates first, then collapses
// remaining near-duplicate titles above the Jaccard similarity threshold,
// keeping the first occurrence of each group (graph results precede feed
// results in the input).
func dedupeArticles(articles []orchestrator.Article, threshold float64) []orchestrator.Article {
	seenURL := make(map[string]bool, len(articles))
	byURL := make([]orchestrator.Article, 0, len(articles))
	for _, art := range articles {
		if art.URL != "" {
			if seenURL[art.URL] {
				continue
			}
			seenURL[art.URL] = true
		}
		byURL = append(byURL, art)
	}

	out := make([]orchestrator.Article, 0, len(byURL))
	for _, art := range byURL {
		duplicate := false
		for _, kept := range out {
			if jaccardSimilarity(art.Title, kept.Title) >= threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, art)
		}
	}
	return out
}

func jaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	tokens := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

const (
	relevanceWeight = 0.7
	recencyWeight   = 0.3

	recencyBonusWithin24h = 0.3
	recencyBonusWithin48h = 0.2
	recencyBonusOlder     = 0.1
)

// rankArticles sorts by score = 0.7*relevance + 0.3*recency, per spec
// §4.5.3.
func rankArticles(articles []orchestrator.Article) []orchestrator.Article {
	now := time.Now()
	scored := make([]orchestrator.Article, len(articles))
	copy(scored, articles)

	sort.SliceStable(scored, func(i, j int) bool {
		return articleScore(scored[i], now) > articleScore(scored[j], now)
	})
	return scored
}

func articleScore(a orchestrator.Article, now time.Time) float64 {
	return relevanceWeight*a.Relevance + recencyWeight*recencyBonus(a, now)
}

func recencyBonus(a orchestrator.Article, now time.Time) float64 {
	if a.PublishedAt.IsZero() {
		return recencyBonusOlder
	}
	age := now.Sub(a.PublishedAt)
	switch {
	case age <= 24*time.Hour:
		return recencyBonusWithin24h
	case age <= 48*time.Hour:
		return recencyBonusWithin48h
	default:
		return recencyBonusOlder
	}
}
