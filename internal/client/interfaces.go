// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-bank-connect/internal/wizard"
)

// UI drives one interactive wizard session.
type UI interface {
	// Run blocks until the session ended and returns the final wizard state.
	Run(ctx context.Context) (wizard.State, error)
}
