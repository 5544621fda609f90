package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"

	"github.com/elee1766/taskchat/src/apperr"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationDialect = "sqlite3"
	migrationTable   = "schema_migrations"
)

func init() {
	migrate.SetTable(migrationTable)
}

func migrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}
}

// DB is the SQLite backed conversation and task store.
type DB struct {
	path string
	db   *sql.DB
}

// Open opens (creating if needed) the database at path and applies all
// pending migrations.
func Open(path string) (*DB, error) {
	store, err := Connect(path)
	if err != nil {
		return nil, err
	}
	if _, err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Connect opens the database without touching its schema.
func Connect(path string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	if isMemory(path) {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	return &DB{path: path, db: db}, nil
}

func dsn(path string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate&_time_format=sqlite"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func (d *DB) DB() *sql.DB {
	return d.db
}

func (d *DB) Path() string {
	return d.path
}

func (d *DB) Close() error {
	return d.db.Close()
}

// WithTx runs fn inside a single transaction. fn must only use tx.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("storage.WithTx", fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal("storage.WithTx", fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Migrate applies all pending migrations and returns how many ran.
func (d *DB) Migrate() (int, error) {
	return migrate.Exec(d.db, migrationDialect, migrationSource(), migrate.Up)
}

// Rollback reverts up to steps applied migrations.
func (d *DB) Rollback(steps int) (int, error) {
	if steps <= 0 {
		steps = 1
	}
	return migrate.ExecMax(d.db, migrationDialect, migrationSource(), migrate.Down, steps)
}

// MigrationState describes one known migration.
type MigrationState struct {
	ID        string
	Applied   bool
	AppliedAt time.Time
}

// MigrationStatus lists every embedded migration and whether it is applied.
func (d *DB) MigrationStatus() ([]MigrationState, error) {
	known, err := migrationSource().FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	records, err := migrate.GetMigrationRecords(d.db, migrationDialect)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration records: %w", err)
	}

	applied := make(map[string]time.Time, len(records))
	for _, r := range records {
		applied[r.Id] = r.AppliedAt
	}

	states := make([]MigrationState, 0, len(known))
	for _, m := range known {
		at, ok := applied[m.Id]
		states = append(states, MigrationState{ID: m.Id, Applied: ok, AppliedAt: at})
	}
	return states, nil
}
