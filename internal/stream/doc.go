// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package stream opens authenticated text/event-stream responses.
//
// Every attempt runs under one context composed of the caller's context and
// a fixed timeout. context.Cause tells the three stop reasons apart:
// [ErrStreamTimeout], [ErrAborted] (the caller's context ended) and
// [ErrSuperseded] (a newer attempt replaced this one). Use [IsCanceled] to
// filter out cancellations before showing an error.
//
// A 401 response triggers exactly one token refresh and one retry; a second
// 401 or a failed refresh yields [ErrSessionExpired].
package stream
