// Package semanticindex implements SemanticIndex over a pgvector-backed
// knowledge corpus, grounded on the teacher's memory repository's
// cosine-distance search pattern.
package semanticindex

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// PgvectorIndex searches the knowledge_chunks table by embedding cosine
// distance, converting query text to a vector via the injected embedder
// before each search.
type PgvectorIndex struct {
	db       *sqlx.DB
	embedder orchestrator.Embedder
	log      *logger.Logger
}

func NewPgvectorIndex(db *sqlx.DB, embedder orchestrator.Embedder) *PgvectorIndex {
	return &PgvectorIndex{db: db, embedder: embedder, log: logger.Get().With("component", "semantic_index")}
}

var _ orchestrator.SemanticIndex = (*PgvectorIndex)(nil)

type chunkRow struct {
	Source     string  `db:"source"`
	Content    string  `db:"content"`
	Similarity float64 `db:"similarity"`
}

const searchQuery = `
SELECT source, content, 1 - (embedding <=> $1) as similarity
FROM knowledge_chunks
WHERE 1 - (embedding <=> $1) >= $2
ORDER BY embedding <=> $1
LIMIT $3`

// Search embeds text and returns the topK knowledge chunks scoring at
// least minScore, highest similarity first.
func (p *PgvectorIndex) Search(ctx context.Context, text string, topK int, minScore float64) ([]orchestrator.SemanticHit, error) {
	vec, err := p.embedder.Embed(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransientExternal, "embed query: "+err.Error())
	}

	var rows []chunkRow
	err = p.db.SelectContext(ctx, &rows, searchQuery, pgvector.NewVector(vec), minScore, topK)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransientExternal, "vector search: "+err.Error())
	}

	hits := make([]orchestrator.SemanticHit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, orchestrator.SemanticHit{
			Source:  r.Source,
			Score:   r.Similarity,
			Snippet: r.Content,
		})
	}

	p.log.Debugf("semantic search: query_len=%d hits=%d", len(text), len(hits))
	return hits, nil
}
