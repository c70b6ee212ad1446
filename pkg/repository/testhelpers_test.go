package repository

import (
	"context"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/ralbench/ralbench/ent"
	"github.com/ralbench/ralbench/pkg/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// newTestClient opens an in-memory SQLite-backed ent client, the
// lightest-weight way to exercise repository-touching tests without a
// container, mirroring test/database's real-database-not-mocks discipline
// while keeping the unit suite fast.
func newTestClient(t *testing.T) *ent.Client {
	t.Helper()

	client, err := ent.Open(dialect.SQLite, "file:ent?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)

	require.NoError(t, client.Schema.Create(context.Background()))

	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})

	return client
}

func sampleBenchmark() *models.Benchmark {
	return &models.Benchmark{
		ID:            "bench-1",
		Name:          "mini",
		Description:   "a tiny benchmark",
		FormatVersion: "v1",
		Questions: []models.Question{
			{ID: "q1", Text: "What is 2+2?", ExpectedAnswer: "4"},
			{ID: "q2", Text: "What is 3+3?", ExpectedAnswer: "6"},
		},
	}
}
