// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the bankconnect client application runtime.
//
// It wires local storage, backend services, the connection wizard and the
// terminal UI into a single process lifecycle shared by every CLI command.
package client
