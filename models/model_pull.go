// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ModelPullRequest starts a model download on the backend.
type ModelPullRequest struct {
	Model string `json:"model"`
}

// ModelPullProgress is one progress frame of a model download. The stream
// carries a single data field per frame; Status tells what happened.
type ModelPullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Done reports whether the frame terminates the download successfully.
func (p ModelPullProgress) Done() bool {
	return p.Status == "success" || p.Status == "done"
}
