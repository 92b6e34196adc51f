// Package testdb starts a throwaway Postgres with the repository migrations
// applied, for integration tests.
package testdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultImage is used unless TESTDB_IMAGE overrides it
const DefaultImage = "postgres:16-alpine"

// resetTables lists every table Reset empties, children first
var resetTables = []string{
	"leads",
	"investments",
	"transactions",
	"categories",
	"accounts",
	"achievements",
	"profiles",
	"users",
}

// TestDB is a running Postgres container plus a pool connected to it
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// NewTestDB starts the container and applies every *.up.sql migration in order
func NewTestDB(ctx context.Context) (*TestDB, error) {
	scripts, err := migrationScripts()
	if err != nil {
		return nil, err
	}

	image := os.Getenv("TESTDB_IMAGE")
	if image == "" {
		image = DefaultImage
	}

	container, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("finsight_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(scripts...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	db := &TestDB{Container: container}
	if err := db.connect(ctx); err != nil {
		return nil, errors.Join(err, db.Close(ctx))
	}
	return db, nil
}

func (db *TestDB) connect(ctx context.Context) error {
	connStr, err := db.Container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	db.Pool = pool
	db.ConnStr = connStr

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Reset empties every application table
func (db *TestDB) Reset(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, "TRUNCATE TABLE "+strings.Join(resetTables, ", ")+" CASCADE")
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// SeedAccount inserts an account row and returns its id. An empty balance
// stores NULL, which the normalization layer drops.
func (db *TestDB) SeedAccount(ctx context.Context, owner, name, accountType, balance string) (string, error) {
	var bal *string
	if balance != "" {
		bal = &balance
	}

	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO accounts (user_name, account_name, account_type, balance)
		VALUES ($1, $2, $3, $4::numeric) RETURNING id::text
	`, owner, name, accountType, bal).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to seed account: %w", err)
	}
	return id, nil
}

// SeedCategory inserts a category row and returns its id
func (db *TestDB) SeedCategory(ctx context.Context, owner, name string) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO categories (user_name, name) VALUES ($1, $2) RETURNING id::text`,
		owner, name,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to seed category: %w", err)
	}
	return id, nil
}

// Close closes the pool and terminates the container
func (db *TestDB) Close(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// migrationScripts returns the absolute paths of migrations/*.up.sql, sorted
// by their numeric prefix
func migrationScripts() ([]string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("failed to locate testdb source file")
	}

	// testutil/testdb/postgres.go -> <module root>/migrations
	root := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	scripts, err := filepath.Glob(filepath.Join(root, "migrations", "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(scripts) == 0 {
		return nil, fmt.Errorf("no migrations found under %s", filepath.Join(root, "migrations"))
	}
	sort.Strings(scripts)
	return scripts, nil
}
