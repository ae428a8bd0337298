// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscoveredAccount is an account the bank reported during discovery.
// Values are never changed after discovery; user-editable names live in a
// separate map keyed by IBAN.
type DiscoveredAccount struct {
	IBAN          string          `json:"iban"`
	AccountNumber string          `json:"account_number,omitempty"`
	BLZ           string          `json:"blz"`
	BIC           string          `json:"bic,omitempty"`
	BankName      string          `json:"bank_name,omitempty"`
	OwnerName     string          `json:"owner_name,omitempty"`
	AccountType   string          `json:"account_type,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceDate   *time.Time      `json:"balance_date,omitempty"`
	DefaultName   string          `json:"default_name"`
}

// DiscoverAccountsRequest asks the backend to list the accounts reachable
// with the stored credentials.
type DiscoverAccountsRequest struct {
	BLZ string `json:"blz"`
}

// DiscoverAccountsResponse wraps the discovered accounts.
type DiscoverAccountsResponse struct {
	Accounts []DiscoveredAccount `json:"accounts"`
}

// AccountImport names one account to import.
type AccountImport struct {
	IBAN string `json:"iban"`
	Name string `json:"name"`
}

// ImportAccountsRequest is submitted when the user confirms the review step.
type ImportAccountsRequest struct {
	BLZ      string          `json:"blz"`
	Accounts []AccountImport `json:"accounts"`
}

// ImportedAccount is one ledger account created by the import.
type ImportedAccount struct {
	ID   int64  `json:"id"`
	IBAN string `json:"iban"`
	Name string `json:"name"`
}

// ConnectionResult summarises an import. It is created once and only read
// afterwards.
type ConnectionResult struct {
	Message          string            `json:"message"`
	ImportedAccounts []ImportedAccount `json:"imported_accounts"`
}
