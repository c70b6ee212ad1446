package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateSupplementaryIndexes creates indexes not expressible via Ent schema
// annotations, run once after migrations apply.
func CreateSupplementaryIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	// GIN index on agent_config for queries filtering evaluations by
	// strategyId/model stored inside the JSONB snapshot.
	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_agent_config_gin
		ON evaluations USING gin(agent_config)`)
	if err != nil {
		return fmt.Errorf("failed to create agent_config GIN index: %w", err)
	}

	return nil
}
