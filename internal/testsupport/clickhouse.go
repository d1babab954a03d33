package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"finassist/internal/adapters/clickhouse"
	"finassist/internal/adapters/config"
)

// ClickHouseTestHelper manages cleanup for ClickHouse integration tests.
type ClickHouseTestHelper struct {
	client *clickhouse.Client
}

// NewClickHouseTestHelper creates a ClickHouse client for tests.
func NewClickHouseTestHelper(t *testing.T, cfg config.ClickHouseConfig) *ClickHouseTestHelper {
	t.Helper()

	client, err := clickhouse.NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to connect to clickhouse: %v", err)
	}

	helper := &ClickHouseTestHelper{client: client}
	t.Cleanup(func() { _ = client.Close() })
	return helper
}

// CreateTempTable creates a temporary table and registers cleanup.
func (h *ClickHouseTestHelper) CreateTempTable(t *testing.T, schema string) string {
	t.Helper()

	table := fmt.Sprintf("tmp_test_%d", time.Now().UnixNano())
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE = MergeTree() ORDER BY tuple()", table, schema)

	if err := h.client.Exec(context.Background(), query); err != nil {
		t.Fatalf("failed to create clickhouse table: %v", err)
	}

	t.Cleanup(func() {
		_ = h.client.Exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	})

	return table
}

// CleanupTable drops the provided table immediately.
func (h *ClickHouseTestHelper) CleanupTable(ctx context.Context, table string) error {
	return h.client.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
}

// TruncateTable removes all data from the table but keeps the structure
func (h *ClickHouseTestHelper) TruncateTable(ctx context.Context, table string) error {
	return h.client.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE IF EXISTS %s", table))
}

// CleanupTableData deletes data matching a filter condition
// Example: CleanupTableData(ctx, "news_articles", "source = 'test-wire'")
func (h *ClickHouseTestHelper) CleanupTableData(ctx context.Context, table, condition string) error {
	query := fmt.Sprintf("ALTER TABLE %s DELETE WHERE %s", table, condition)
	return h.client.Exec(ctx, query)
}

// RegisterTableCleanup schedules cleanup of specific table data after test completes
// This is useful when working with shared tables that shouldn't be dropped
func (h *ClickHouseTestHelper) RegisterTableCleanup(t *testing.T, table, condition string) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Use DELETE for immediate cleanup (ALTER TABLE DELETE is async)
		query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, condition)
		_ = h.client.Exec(ctx, query)
	})
}

// CreateBatch is a generic function to insert test data into ClickHouse tables
// Usage: testsupport.CreateBatch(t, helper, insertQuery, items)
func CreateBatch[T any](t *testing.T, helper *ClickHouseTestHelper, insertQuery string, items []T) {
	t.Helper()

	if len(items) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batch, err := helper.client.Conn().PrepareBatch(ctx, insertQuery)
	if err != nil {
		t.Fatalf("failed to prepare batch: %v", err)
	}

	for _, item := range items {
		if err := batch.AppendStruct(&item); err != nil {
			t.Fatalf("failed to append item to batch: %v", err)
		}
	}

	if err := batch.Send(); err != nil {
		t.Fatalf("failed to send batch: %v", err)
	}
}

// Client exposes the raw ClickHouse client for queries.
func (h *ClickHouseTestHelper) Client() *clickhouse.Client {
	return h.client
}
