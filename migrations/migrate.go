// Package migrations embeds the SQLite schema of the local sync history.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var schema embed.FS

// Migrate brings db up to the latest embedded schema version. Applied
// versions are skipped, so it is safe to call on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, schema)
	if err != nil {
		return fmt.Errorf("migration error creating provider: %w", err)
	}

	if _, err = provider.Up(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
