package sink

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpsertBatch(t *testing.T) {
	batch := upsertBatch(Prepare(sampleRecords()))

	require.Equal(t, 4, batch.Len())
	first := batch.QueuedQueries[0]
	assert.Equal(t, upsertJobSQL, first.SQL)
	assert.Equal(t, []any{
		"Acme", "https://example.com/2", "desc https://example.com/2", "20-25k", 20000, "上海", "", scrapedAt,
	}, first.Arguments)
}

// Runs against a real database when TEST_DATABASE_URL is set.
func TestPostgresSink_Live(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" || testing.Short() {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := ConnectPostgres(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Persist(ctx, sampleRecords()))
	require.NoError(t, s.Persist(ctx, sampleRecords()))

	var n int
	err = s.db.QueryRow(ctx,
		"SELECT count(*) FROM crawled_jobs WHERE url LIKE 'https://example.com/%'").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
