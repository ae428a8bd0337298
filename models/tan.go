// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// TANMethod describes one authentication method offered by a bank.
type TANMethod struct {
	// Code is the bank-side security function code (e.g. "910").
	Code string `json:"code"`
	// Name is the display name, also used as the default TAN medium for
	// decoupled methods.
	Name string `json:"name"`
	// IsDecoupled marks push/app approval methods that need no typed code.
	IsDecoupled bool `json:"is_decoupled"`

	DecoupledMaxPolls       int `json:"decoupled_max_polls,omitempty"`
	DecoupledFirstPollDelay int `json:"decoupled_first_poll_delay,omitempty"`
	DecoupledPollInterval   int `json:"decoupled_poll_interval,omitempty"`
}

// TANMethodsResponse is the result of TAN-method discovery. The set is
// fetched once per credential-entry attempt.
type TANMethodsResponse struct {
	Methods       []TANMethod `json:"methods"`
	DefaultMethod string      `json:"default_method,omitempty"`
}

// DefaultSelection picks the backend-declared default method when it is
// part of the list, otherwise the first method. ok is false for an empty list.
func (r TANMethodsResponse) DefaultSelection() (method TANMethod, ok bool) {
	if len(r.Methods) == 0 {
		return TANMethod{}, false
	}
	if r.DefaultMethod != "" {
		for _, m := range r.Methods {
			if m.Code == r.DefaultMethod {
				return m, true
			}
		}
	}
	return r.Methods[0], true
}
