package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/samber/lo"

	"github.com/elee1766/taskchat/src/storage"
)

// MigrateCmd manages database migrations
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Run pending migrations"`
	Down   MigrateDownCmd   `cmd:"" help:"Rollback applied migrations"`
	Status MigrateStatusCmd `cmd:"" help:"Show migration status"`
}

// connect opens the configured database without migrating it.
func connect(cli *CLI) (*storage.DB, error) {
	cfg, _, err := cli.setup()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	db, err := storage.Connect(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// MigrateUpCmd runs pending migrations
type MigrateUpCmd struct{}

// Run executes the migrate up command
func (c *MigrateUpCmd) Run(kctx *kong.Context, cli *CLI) error {
	db, err := connect(cli)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Migrate()
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	fmt.Printf("Applied %d migration(s) to %s\n", n, db.Path())
	return nil
}

// MigrateDownCmd rolls back migrations
type MigrateDownCmd struct {
	Steps int `short:"n" default:"1" help:"Number of migrations to roll back"`
}

// Run executes the migrate down command
func (c *MigrateDownCmd) Run(kctx *kong.Context, cli *CLI) error {
	db, err := connect(cli)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Rollback(c.Steps)
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	fmt.Printf("Rolled back %d migration(s) on %s\n", n, db.Path())
	return nil
}

// MigrateStatusCmd shows migration status
type MigrateStatusCmd struct{}

// Run executes the migrate status command
func (c *MigrateStatusCmd) Run(kctx *kong.Context, cli *CLI) error {
	db, err := connect(cli)
	if err != nil {
		return err
	}
	defer db.Close()

	states, err := db.MigrationStatus()
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	rows := lo.Map(states, func(s storage.MigrationState, _ int) []string {
		applied := "pending"
		if s.Applied {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		return []string{s.ID, applied}
	})
	return renderTable(os.Stdout, []string{"MIGRATION", "APPLIED"}, rows)
}
