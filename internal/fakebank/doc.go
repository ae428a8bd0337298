// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package fakebank is an in-memory stand-in for the banking backend. It
// speaks the same REST and event-stream surface as the real service: bank
// lookup, TAN methods, credential storage, account discovery and import, the
// sync recommendation, token refresh, the sync stream and the model pull
// stream.
//
// Requests are authenticated with HS256 JWTs issued by [Auth]. The banking
// data lives in [Bank] and is seeded from [Options]; failure switches such
// as GatewayDisabled or FailingIBANs let tests provoke every error path the
// client handles.
package fakebank
