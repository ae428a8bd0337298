// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-bank-connect/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/history_mock.go -package=mock

// HistoryRecorder persists finished sync runs.
type HistoryRecorder interface {
	// ListSyncRuns returns the latest runs, newest first. limit <= 0 means
	// no limit.
	ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)

	// RecordSyncRun stores run and returns its ID.
	RecordSyncRun(ctx context.Context, run models.SyncRun) (int64, error)
}
