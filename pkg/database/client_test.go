package database

import (
	"context"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/ralbench/ralbench/ent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestClient creates a test database client inline (avoiding import cycle with test/database)
func newTestClient(t *testing.T) *Client {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
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
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	drv, err := sql.Open(dialect.Postgres, connStr)
	require.NoError(t, err)

	db := drv.DB()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	entClient := ent.NewClient(ent.Driver(drv))

	// Auto-migration for tests, bypassing the embedded SQL migrations.
	err = entClient.Schema.Create(ctx)
	require.NoError(t, err)

	err = CreateSupplementaryIndexes(ctx, drv)
	require.NoError(t, err)

	client := NewClientFromEnt(entClient, db)

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestDatabaseClient_ConnectionPool(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.DB().PingContext(ctx)
	require.NoError(t, err)

	health, err := Health(ctx, client.DB())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Greater(t, health.MaxOpenConns, 0)
}

func TestDatabaseClient_AgentConfigJSONQuery(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	bench, err := client.Benchmark.Create().
		SetID("bench-1").
		SetName("arithmetic-v1").
		SetFormatVersion("v1").
		Save(ctx)
	require.NoError(t, err)

	_, err = client.Evaluation.Create().
		SetID("eval-1").
		SetBenchmarkID(bench.ID).
		SetAgentConfig(map[string]interface{}{"strategyId": "chain_of_thought", "model": "gpt-4o"}).
		Save(ctx)
	require.NoError(t, err)

	_, err = client.Evaluation.Create().
		SetID("eval-2").
		SetBenchmarkID(bench.ID).
		SetAgentConfig(map[string]interface{}{"strategyId": "none", "model": "gpt-4o"}).
		Save(ctx)
	require.NoError(t, err)

	rows, err := client.DB().QueryContext(ctx,
		`SELECT id FROM evaluations WHERE agent_config @> $1`,
		`{"strategyId": "chain_of_thought"}`,
	)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}

	assert.Equal(t, []string{"eval-1"}, ids)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Host:         "localhost",
				Port:         5432,
				User:         "test",
				Password:     "test",
				Database:     "test",
				SSLMode:      "disable",
				MaxOpenConns: 10,
				MaxIdleConns: 5,
			},
			wantErr: false,
		},
		{
			name: "missing password",
			cfg: Config{
				Host:         "localhost",
				Port:         5432,
				User:         "test",
				Password:     "",
				Database:     "test",
				MaxOpenConns: 10,
				MaxIdleConns: 5,
			},
			wantErr: true,
		},
		{
			name: "idle conns exceed max conns",
			cfg: Config{
				Host:         "localhost",
				Port:         5432,
				User:         "test",
				Password:     "test",
				Database:     "test",
				MaxOpenConns: 5,
				MaxIdleConns: 10,
			},
			wantErr: true,
		},
		{
			name: "zero max open conns",
			cfg: Config{
				Host:         "localhost",
				Port:         5432,
				User:         "test",
				Password:     "test",
				Database:     "test",
				MaxOpenConns: 0,
				MaxIdleConns: 0,
			},
			wantErr: true,
		},
		{
			name: "negative idle conns",
			cfg: Config{
				Host:         "localhost",
				Port:         5432,
				User:         "test",
				Password:     "test",
				Database:     "test",
				MaxOpenConns: 10,
				MaxIdleConns: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
