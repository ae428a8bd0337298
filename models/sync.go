// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncPhase is the coarse state of the account currently being synced.
type SyncPhase string

const (
	PhaseConnecting  SyncPhase = "connecting"
	PhaseFetching    SyncPhase = "fetching"
	PhaseClassifying SyncPhase = "classifying"
	PhaseComplete    SyncPhase = "complete"
)

// SyncProgress is the snapshot observers render from. It is replaced as a
// whole on every processed event and never mutated in place.
type SyncProgress struct {
	Phase               SyncPhase `json:"phase"`
	CurrentAccount      string    `json:"current_account"`
	CurrentAccountName  string    `json:"current_account_name"`
	AccountIndex        int       `json:"account_index"`
	TotalAccounts       int       `json:"total_accounts"`
	TransactionsCurrent int       `json:"transactions_current"`
	TransactionsTotal   int       `json:"transactions_total"`
	LastMessage         string    `json:"last_message"`

	LastTransactionDescription string `json:"last_transaction_description,omitempty"`
	LastCounterAccountName     string `json:"last_counter_account_name,omitempty"`

	// AccountErrors collects account_failed messages in arrival order.
	AccountErrors []string `json:"account_errors,omitempty"`
}

// SyncStreamRequest is the body of the streaming sync call. A nil Days asks
// the backend for an adaptive sync.
type SyncStreamRequest struct {
	Days     *int   `json:"days,omitempty"`
	IBAN     string `json:"iban,omitempty"`
	BLZ      string `json:"blz,omitempty"`
	AutoPost *bool  `json:"auto_post,omitempty"`
}

// SyncResult is what a finished sync resolves with.
type SyncResult struct {
	Success        bool     `json:"success"`
	TotalImported  int      `json:"total_imported"`
	AccountsSynced int      `json:"accounts_synced"`
	Errors         []string `json:"errors,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// AccountSyncState is the per-account part of a sync recommendation.
type AccountSyncState struct {
	IBAN           string     `json:"iban"`
	Name           string     `json:"name,omitempty"`
	LastImportedAt *time.Time `json:"last_imported_at,omitempty"`
}

// SyncRecommendation is the backend's answer to "what should I sync".
// When NeedsDaysPrompt is false an adaptive sync (no days) is sufficient.
type SyncRecommendation struct {
	NeedsDaysPrompt bool               `json:"needs_days_prompt"`
	SuggestedDays   int                `json:"suggested_days,omitempty"`
	Reason          string             `json:"reason,omitempty"`
	Accounts        []AccountSyncState `json:"accounts,omitempty"`
}

// SyncRun is one finished sync as recorded in the local history.
type SyncRun struct {
	ID             int64     `json:"id"`
	BLZ            string    `json:"blz,omitempty"`
	Days           *int      `json:"days,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Success        bool      `json:"success"`
	TotalImported  int       `json:"total_imported"`
	AccountsSynced int       `json:"accounts_synced"`
	Error          string    `json:"error,omitempty"`
}
