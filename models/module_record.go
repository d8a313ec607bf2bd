// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// ModuleRecord is the locally persisted value of a module: its document and
// the timestamp of the version it represents.
type ModuleRecord struct {
	ModuleData      json.RawMessage `json:"moduleData"`
	ModuleTimestamp time.Time       `json:"moduleTimestamp"`
}

// HasTimestamp reports whether the record was ever written with a real timestamp.
func (r ModuleRecord) HasTimestamp() bool {
	return !r.ModuleTimestamp.IsZero()
}

// QueueSnapshot is the persisted form of the orchestrator queue.
type QueueSnapshot struct {
	Operations      []SyncOperation  `json:"operations"`
	Conflicts       []ConflictRecord `json:"conflicts"`
	Modules         []string         `json:"modules,omitempty"`
	ErrorCount      int              `json:"error_count"`
	LastSyncAt      *time.Time       `json:"last_sync_at,omitempty"`
	LastPersistedAt time.Time        `json:"lastPersistedAt"`
}
