// Package database wires ralbench's ent client to a pooled PostgreSQL
// connection and applies the versioned migrations backing the
// evaluations/benchmarks/question_results tables ent/schema describes.
package database

import (
	"context"
	stdsql "database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/ralbench/ralbench/ent"
)

//go:embed migrations
var migrationsFS embed.FS

// Config holds the connection and pool settings for the evaluations
// database. Values normally come from LoadConfigFromEnv, not literals.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// dsn renders cfg as a libpq/pgx keyword connection string.
func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Client bundles the generated ent.Client for evaluations/benchmarks/
// question_results access with the underlying *sql.DB, which callers need
// directly for health checks and the one JSONB containment query
// (agent_config @>) ent's typed API has no equivalent for.
type Client struct {
	*ent.Client
	db *stdsql.DB
}

// DB returns the underlying database connection for health checks and direct queries
func (c *Client) DB() *stdsql.DB {
	return c.db
}

// NewClientFromEnt wraps an already-constructed ent.Client, letting tests
// substitute an in-memory or testcontainers-backed driver instead of
// going through NewClient's pgx/migration path.
func NewClientFromEnt(entClient *ent.Client, db *stdsql.DB) *Client {
	return &Client{
		Client: entClient,
		db:     db,
	}
}

// NewClient opens a pooled pgx connection to cfg's database, applies the
// embedded SQL migrations, and returns a ready-to-use ent-backed Client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	db, err := openPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// dialect.Postgres drives ent's SQL generation; pgx still owns the
	// physical connection and its pool.
	drv := entsql.OpenDB(dialect.Postgres, db)
	entClient := ent.NewClient(ent.Driver(drv))

	if err := applyMigrations(ctx, db, cfg, drv); err != nil {
		_ = entClient.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Client{Client: entClient, db: db}, nil
}

// openPool opens a pgx-backed *sql.DB for cfg, sizes its connection pool,
// and confirms the server is reachable before handing it back.
func openPool(ctx context.Context, cfg Config) (*stdsql.DB, error) {
	db, err := stdsql.Open("pgx", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// applyMigrations runs the pending golang-migrate steps embedded under
// pkg/database/migrations (the evaluations/benchmarks/question_results
// table definitions, plus anything ent/schema has grown since the last
// release), then lays down the supplementary indexes those migrations
// don't cover.
//
// Migration workflow: a schema change starts in ent/schema/*.go, gets a
// hand-written up/down SQL pair added under pkg/database/migrations, and
// ships embedded in the binary via go:embed. Nothing is read from disk
// at deploy time, so there's no separate migrations artifact to ship
// alongside the binary.
func applyMigrations(ctx context.Context, db *stdsql.DB, cfg Config, drv *entsql.Driver) error {
	hasMigrations, err := hasEmbeddedMigrations()
	if err != nil {
		return fmt.Errorf("failed to check embedded migrations: %w", err)
	}
	if !hasMigrations {
		return fmt.Errorf("no embedded migration files found - binary may be built incorrectly")
	}

	pgDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, cfg.Database, pgDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Close only the migration source, not m itself: m.Close() would also
	// close the postgres driver, which closes the shared *sql.DB passed to
	// postgres.WithInstance above, taking the ent client down with it.
	if err := sourceDriver.Close(); err != nil {
		return fmt.Errorf("failed to close migration source: %w", err)
	}

	if err := CreateSupplementaryIndexes(ctx, drv); err != nil {
		return fmt.Errorf("failed to create supplementary indexes: %w", err)
	}
	return nil
}

// hasEmbeddedMigrations checks if the embedded FS contains any .sql migration files
func hasEmbeddedMigrations() (bool, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		// If the migrations directory doesn't exist in the embed, no migrations
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	// Check if there are any .sql files
	for _, entry := range entries {
		if !entry.IsDir() && len(entry.Name()) > 4 && entry.Name()[len(entry.Name())-4:] == ".sql" {
			return true, nil
		}
	}

	return false, nil
}
