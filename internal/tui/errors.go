// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"
)

// ErrUserQuit is returned by [TUI.Run] when the user left before the
// wizard finished.
var ErrUserQuit = errors.New("user quit the wizard")

const msgBackendUnavailable = "The banking service is unreachable. Check your network connection and the backend address."

// humanizeMessage replaces transport-level error texts with a message the
// user can act on.
func humanizeMessage(msg string) string {
	s := strings.ToLower(msg)
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") {
		return msgBackendUnavailable
	}
	return msg
}
