// Package symbols implements SymbolLookup against the Postgres-backed
// ticker directory, grounded on the teacher's sqlx repository pattern.
package symbols

import (
	"context"
	"database/sql"
	"strings"

	"finassist/internal/adapters/postgres"
	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// PostgresLookup resolves free text to a ticker symbol via an
// exact-or-fuzzy match against the symbols table (ticker, company name,
// and common aliases).
type PostgresLookup struct {
	client *postgres.Client
	log    *logger.Logger
}

func NewPostgresLookup(client *postgres.Client) *PostgresLookup {
	return &PostgresLookup{client: client, log: logger.Get().With("component", "symbol_lookup")}
}

var _ orchestrator.SymbolLookup = (*PostgresLookup)(nil)

const resolveQuery = `
SELECT ticker FROM symbols
WHERE ticker = upper($1)
   OR lower(company_name) = lower($1)
   OR $1 = ANY(aliases)
LIMIT 1`

const fuzzyResolveQuery = `
SELECT ticker FROM symbols
WHERE lower(company_name) LIKE '%' || lower($1) || '%'
ORDER BY length(company_name) ASC
LIMIT 1`

// Resolve looks up an exact ticker/name/alias match first, then falls
// back to a substring match on company name, per spec §4.5's data agent
// symbol resolution.
func (l *PostgresLookup) Resolve(ctx context.Context, text string) (string, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false, errors.Wrap(errors.ErrInvalidInput, "empty symbol query")
	}

	var ticker string
	err := l.client.DB().GetContext(ctx, &ticker, resolveQuery, text)
	if err == nil {
		return ticker, true, nil
	}
	if err != sql.ErrNoRows {
		return "", false, errors.Wrap(errors.ErrTransientExternal, err.Error())
	}

	err = l.client.DB().GetContext(ctx, &ticker, fuzzyResolveQuery, text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(errors.ErrTransientExternal, err.Error())
	}

	return ticker, true, nil
}
