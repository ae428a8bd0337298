// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto seals secrets that have to be kept at rest, such as the
// online banking logins the fake backend stores between wizard steps.
package crypto

// Sealer encrypts values so they can be stored and later restored.
//
// Scheme:
//
//	Key  = Argon2id(secret, salt)
//	Blob = base64(nonce ‖ AES-256-GCM(Key, JSON(value)))
type Sealer interface {
	// Seal serializes v to JSON and encrypts it.
	Seal(v any) (string, error)

	// Open decrypts a blob produced by Seal and unmarshals it into target,
	// which must be a non-nil pointer. A blob sealed under another key fails
	// with [ErrOpen].
	Open(blob string, target any) error
}
