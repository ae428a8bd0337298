// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ConnectionStep identifies the active screen of the bank-connection wizard.
// Exactly one step is active at a time.
type ConnectionStep string

const (
	StepFindBank       ConnectionStep = "find_bank"
	StepCredentials    ConnectionStep = "credentials"
	StepTANDiscovery   ConnectionStep = "tan_discovery"
	StepReviewAccounts ConnectionStep = "review_accounts"
	StepConnecting     ConnectionStep = "connecting"
	StepInitialSync    ConnectionStep = "initial_sync"
	StepSyncing        ConnectionStep = "syncing"
	StepSuccess        ConnectionStep = "success"
	StepError          ConnectionStep = "error"
)

// String implements fmt.Stringer.
func (s ConnectionStep) String() string {
	return string(s)
}
