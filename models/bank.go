// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// BankInfo is the institution record returned by a bank lookup.
type BankInfo struct {
	BLZ       string `json:"blz"`
	Name      string `json:"name"`
	BIC       string `json:"bic,omitempty"`
	City      string `json:"city,omitempty"`
	Supported bool   `json:"supported"`
}

// BankForm holds everything the user typed into the wizard.
// It is owned by the wizard state machine and is only changed through
// partial updates ([BankFormPatch]).
type BankForm struct {
	BLZ       string `json:"blz"`
	Username  string `json:"username"`
	PIN       string `json:"pin"`
	TANMethod string `json:"tan_method,omitempty"`
	TANMedium string `json:"tan_medium,omitempty"`
}

// BankFormPatch is a partial update of [BankForm]. Nil fields are left
// untouched.
type BankFormPatch struct {
	BLZ       *string
	Username  *string
	PIN       *string
	TANMethod *string
	TANMedium *string
}

// Apply returns a copy of f with every non-nil field of p applied.
func (p BankFormPatch) Apply(f BankForm) BankForm {
	if p.BLZ != nil {
		f.BLZ = *p.BLZ
	}
	if p.Username != nil {
		f.Username = *p.Username
	}
	if p.PIN != nil {
		f.PIN = *p.PIN
	}
	if p.TANMethod != nil {
		f.TANMethod = *p.TANMethod
	}
	if p.TANMedium != nil {
		f.TANMedium = *p.TANMedium
	}
	return f
}

// Credentials returns the subset of the form sent to the TAN-method query.
func (f BankForm) Credentials() CredentialsRequest {
	return CredentialsRequest{BLZ: f.BLZ, Username: f.Username, PIN: f.PIN}
}

// CredentialsRequest is the body of the TAN-method query.
type CredentialsRequest struct {
	BLZ      string `json:"blz"`
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

// StoreCredentialsResponse is returned after the backend persisted the
// bank credentials.
type StoreCredentialsResponse struct {
	Message string `json:"message"`
}
