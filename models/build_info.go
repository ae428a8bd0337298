// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

const buildInfoUnknown = "N/A"

// BuildInfo is the release metadata linked into the bankconnect binaries
// via -ldflags. Empty values are reported as "N/A".
type BuildInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// NewBuildInfo fills unset fields with "N/A".
func NewBuildInfo(version, date, commit string) BuildInfo {
	orUnknown := func(s string) string {
		if s == "" {
			return buildInfoUnknown
		}
		return s
	}
	return BuildInfo{
		Version: orUnknown(version),
		Date:    orUnknown(date),
		Commit:  orUnknown(commit),
	}
}

// String renders the one-line form printed by `bankconnect --version`.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}
