// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RefreshRequest exchanges a refresh token for a new access token. The new
// token comes back in the Authorization response header.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// APIErrorBody is the JSON error shape returned by the backend.
type APIErrorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}
