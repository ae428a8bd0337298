// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the REST client of the banking backend.
//
// [BankAdapter] covers the request/response calls the connection wizard
// makes: bank lookup, TAN-method discovery, credential storage, account
// discovery and import, the sync recommendation and the token refresh.
// Non-2xx responses come back as [*APIError], which unwraps to the status
// sentinels in errors.go so callers can use [errors.Is].
//
// [TokenStore] holds the process-wide bearer token. Only its Refresh method
// writes the token after construction; concurrent refreshes collapse into
// one backend call.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-bank-connect/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/bank_adapter_mock.go -package=mock

// BankAdapter defines the REST surface of the banking backend.
type BankAdapter interface {
	// LookupBank resolves a BLZ to the bank it belongs to.
	LookupBank(ctx context.Context, blz string) (models.BankInfo, error)

	// GetTANMethods asks the bank which TAN methods the login may use.
	GetTANMethods(ctx context.Context, req models.CredentialsRequest) (models.TANMethodsResponse, error)

	// StoreCredentials persists the bank login including the TAN choice.
	StoreCredentials(ctx context.Context, form models.BankForm) (models.StoreCredentialsResponse, error)

	// DiscoverAccounts lists the accounts reachable with the stored
	// credentials of blz.
	DiscoverAccounts(ctx context.Context, blz string) ([]models.DiscoveredAccount, error)

	// ImportAccounts creates ledger accounts for the selected IBANs.
	ImportAccounts(ctx context.Context, req models.ImportAccountsRequest) (models.ConnectionResult, error)

	// GetSyncRecommendation asks whether a day count has to be chosen for
	// the next sync of blz. An empty blz covers every connected bank.
	GetSyncRecommendation(ctx context.Context, blz string) (models.SyncRecommendation, error)

	// RefreshAccessToken exchanges refreshToken for a new access token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)

	// Tokens returns the token store whose bearer token every call carries.
	Tokens() *TokenStore
}
