// Package database hands repository and orchestrator integration tests a
// real, schema-migrated PostgreSQL-backed *database.Client, sourced from
// either a CI service container or a local testcontainer.
package database

import (
	"context"
	"os"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/ralbench/ralbench/ent"
	"github.com/ralbench/ralbench/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewTestClient builds a *database.Client against a disposable Postgres
// instance, schema-created via ent.Schema.Create rather than the
// embedded SQL migrations NewClient runs in production. The instance is
// torn down automatically when the test finishes.
func NewTestClient(t *testing.T) *database.Client {
	t.Helper()
	ctx := context.Background()

	drv := dialOrStart(t, ctx)

	db := drv.DB()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	entClient := ent.NewClient(ent.Driver(drv))
	require.NoError(t, entClient.Schema.Create(ctx), "create evaluations/benchmarks/question_results schema")
	require.NoError(t, database.CreateSupplementaryIndexes(ctx, drv))

	client := database.NewClientFromEnt(entClient, db)
	t.Cleanup(func() { client.Close() })
	return client
}

// dialOrStart connects to CI_DATABASE_URL when set, so CI can point tests
// at a shared service container instead of paying to boot one per run;
// otherwise it launches a disposable postgres:16-alpine testcontainer.
func dialOrStart(t *testing.T, ctx context.Context) *sql.Driver {
	t.Helper()

	if url := os.Getenv("CI_DATABASE_URL"); url != "" {
		t.Log("dialing CI_DATABASE_URL for the test database")
		drv, err := sql.Open(dialect.Postgres, url)
		require.NoError(t, err)
		return drv
	}

	t.Log("starting a postgres testcontainer for the test database")
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	drv, err := sql.Open(dialect.Postgres, connStr)
	require.NoError(t, err)
	return drv
}
