package store

import (
	"context"

	"github.com/MKhiriev/go-bank-connect/models"
)

// SyncRunRepository persists the history of finished sync runs in the local
// SQLite database.
type SyncRunRepository interface {
	// RecordSyncRun inserts run and returns the ID assigned by the database.
	// The ID field of run is ignored.
	RecordSyncRun(ctx context.Context, run models.SyncRun) (int64, error)

	// ListSyncRuns returns up to limit runs ordered from newest to oldest.
	// A limit <= 0 returns every stored run.
	ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
}
