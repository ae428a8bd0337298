package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/migrations"
)

// DB wraps the SQLite connection pool together with the logger used by
// repositories built on top of it.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies the embedded goose migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB)
}
