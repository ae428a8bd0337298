// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package wizard

import (
	"context"

	"github.com/MKhiriev/go-bank-connect/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/wizard_mock.go -package=mock

// BankingAPI is the request/response backend surface the wizard needs.
type BankingAPI interface {
	LookupBank(ctx context.Context, blz string) (models.BankInfo, error)
	GetTANMethods(ctx context.Context, req models.CredentialsRequest) (models.TANMethodsResponse, error)
	StoreCredentials(ctx context.Context, form models.BankForm) (models.StoreCredentialsResponse, error)
	DiscoverAccounts(ctx context.Context, blz string) ([]models.DiscoveredAccount, error)
	ImportAccounts(ctx context.Context, req models.ImportAccountsRequest) (models.ConnectionResult, error)
	GetSyncRecommendation(ctx context.Context, blz string) (models.SyncRecommendation, error)
}

// Syncer drives a streaming sync. Run replaces any sync still in flight and
// calls onProgress for every snapshot. Abort stops the running sync, if any.
type Syncer interface {
	Run(ctx context.Context, req models.SyncStreamRequest, onProgress func(models.SyncProgress)) (models.SyncResult, error)
	Abort()
}
