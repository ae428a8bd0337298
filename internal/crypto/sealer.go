// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// ErrOpen is returned when a blob cannot be decrypted.
var ErrOpen = errors.New("open sealed value")

// Argon2id parameters, OWASP's 19 MiB / 2 iterations profile.
const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	keyLen       = 32
)

type aesSealer struct {
	gcm cipher.AEAD
}

// NewSealer derives a 256-bit key from secret and salt with Argon2id and
// returns a [Sealer] using AES-256-GCM under that key.
func NewSealer(secret string, salt []byte) (Sealer, error) {
	key := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, keyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &aesSealer{gcm: gcm}, nil
}

// Seal implements [Sealer]. A fresh random nonce is prepended to every
// ciphertext.
func (s *aesSealer) Seal(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}

	nonce := make([]byte, s.gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := s.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open implements [Sealer].
func (s *aesSealer) Open(blob string, target any) error {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("%w: decode base64: %w", ErrOpen, err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(raw) < nonceSize {
		return fmt.Errorf("%w: ciphertext too short", ErrOpen)
	}

	plaintext, err := s.gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}

	if err = json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}
