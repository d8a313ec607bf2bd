// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
)

const unknownBuildValue = "N/A"

// AppBuildInfo is the build metadata injected with -ldflags. Empty values are
// reported as "N/A".
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		version: orUnknown(version),
		date:    orUnknown(date),
		commit:  orUnknown(commit),
	}
}

func (a AppBuildInfo) BuildVersion() string { return orUnknown(a.version) }
func (a AppBuildInfo) BuildDate() string    { return orUnknown(a.date) }
func (a AppBuildInfo) BuildCommit() string  { return orUnknown(a.commit) }

// String renders the block printed on startup.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s",
		a.BuildVersion(), a.BuildDate(), a.BuildCommit())
}

// MarshalJSON exposes the build info on the diagnostics endpoint.
func (a AppBuildInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Version string `json:"version"`
		Date    string `json:"date"`
		Commit  string `json:"commit"`
	}{a.BuildVersion(), a.BuildDate(), a.BuildCommit()})
}

func orUnknown(v string) string {
	if v == "" {
		return unknownBuildValue
	}
	return v
}
