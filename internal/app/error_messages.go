// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// bank-connect client: backend error codes and the user-facing messages the
// wizard shows for them.
//
// Keeping them in one place ensures consistent wording between the wizard,
// the CLI and the fake backend used in tests.
package app

// Backend error codes carried in the "code" field of JSON error bodies.
const (
	// CodeBankingGatewayNotConfigured is returned when the service has no
	// registration for the third-party banking gateway. End users cannot fix
	// this themselves.
	CodeBankingGatewayNotConfigured = "banking_gateway_not_configured"

	// CodeBankNotFound is returned by the bank lookup for an unknown BLZ.
	CodeBankNotFound = "bank_not_found"

	// CodeInvalidCredentials is returned when the bank rejected username/PIN.
	CodeInvalidCredentials = "invalid_credentials"

	// CodeTokenExpired is returned by the refresh endpoint for an expired or
	// revoked refresh token.
	CodeTokenExpired = "token_expired"
)

// User-facing messages.
const (
	// MsgGatewayNotConfigured replaces the raw backend text for
	// [CodeBankingGatewayNotConfigured].
	MsgGatewayNotConfigured = "Online banking is not set up on this server. " +
		"An administrator has to register the banking gateway (FinTS product ID) " +
		"in the server configuration before bank connections can be added."

	// MsgSessionExpired is shown when the silent token refresh failed.
	MsgSessionExpired = "Your session has expired. Please sign in again."

	// MsgBLZRequired is the validation message of the bank lookup.
	MsgBLZRequired = "Please enter a bank code (BLZ)."

	// MsgCredentialsRequired is the validation message of TAN discovery.
	MsgCredentialsRequired = "Please enter your online banking username and PIN."

	// MsgTANMethodRequired is the validation message of account discovery.
	MsgTANMethodRequired = "Please choose a TAN method."

	// MsgNoAccountsSelected is the validation message of the import step.
	MsgNoAccountsSelected = "Select at least one account to import."

	// MsgNoTANMethods is shown when the bank offered no TAN method at all.
	MsgNoTANMethods = "The bank did not offer any TAN method for this login."

	// MsgStreamTimeout is shown when a sync did not finish in time,
	// usually because a TAN approval was never confirmed.
	MsgStreamTimeout = "The bank did not respond in time. If a TAN approval was requested, please try again and confirm it in your banking app."
)
