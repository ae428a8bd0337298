// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks banking payloads before they reach the bank
// logic: BLZ and IBAN formats, non-empty credentials, import selections and
// sync windows.
//
// The fake bank calls Validate right after decoding a request body and
// answers 400 on failure.
package validators

import "context"

// Validator checks a value. When fields are given only those rules run;
// otherwise every rule for the value's type applies.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}
