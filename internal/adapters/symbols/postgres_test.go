package symbols

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/internal/adapters/postgres"
	"finassist/internal/testsupport"
)

func newTestLookup(t *testing.T) *PostgresLookup {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := testsupport.LoadDatabaseConfigsFromEnv(t)
	client, err := postgres.NewClient(cfg.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = client.DB().Exec(`
CREATE TABLE IF NOT EXISTS symbols (
	ticker VARCHAR(16) PRIMARY KEY,
	company_name TEXT NOT NULL,
	aliases TEXT[] NOT NULL DEFAULT '{}'
)`)
	require.NoError(t, err)

	_, err = client.DB().Exec(`DELETE FROM symbols WHERE ticker IN ('AAPL', 'MSFT')`)
	require.NoError(t, err)

	_, err = client.DB().Exec(
		`INSERT INTO symbols (ticker, company_name, aliases) VALUES ($1, $2, $3), ($4, $5, $6)`,
		"AAPL", "Apple Inc", pq.Array([]string{"apple"}),
		"MSFT", "Microsoft Corporation", pq.Array([]string{"msft corp"}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = client.DB().Exec(`DELETE FROM symbols WHERE ticker IN ('AAPL', 'MSFT')`)
	})

	return NewPostgresLookup(client)
}

func TestPostgresLookup_Resolve_ExactTicker(t *testing.T) {
	lookup := newTestLookup(t)

	ticker, ok, err := lookup.Resolve(context.Background(), "aapl")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AAPL", ticker)
}

func TestPostgresLookup_Resolve_CompanyNameAlias(t *testing.T) {
	lookup := newTestLookup(t)

	ticker, ok, err := lookup.Resolve(context.Background(), "apple")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "AAPL", ticker)
}

func TestPostgresLookup_Resolve_FuzzyCompanyNameMatch(t *testing.T) {
	lookup := newTestLookup(t)

	ticker, ok, err := lookup.Resolve(context.Background(), "microsoft")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "MSFT", ticker)
}

func TestPostgresLookup_Resolve_NoMatch(t *testing.T) {
	lookup := newTestLookup(t)

	_, ok, err := lookup.Resolve(context.Background(), "zzzznotasymbol")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresLookup_Resolve_EmptyTextIsInvalidInput(t *testing.T) {
	lookup := newTestLookup(t)

	_, _, err := lookup.Resolve(context.Background(), "   ")
	assert.Error(t, err)
}
