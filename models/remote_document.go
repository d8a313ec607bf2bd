// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// RemoteDocumentMetadata describes one stored version of a module document.
// It is attached at upload time and never persisted locally.
type RemoteDocumentMetadata struct {
	// ID is the backend identifier of the stored version (Drive file id, REST version id).
	ID            string    `json:"id"`
	Module        string    `json:"module"`
	SchemaVersion int       `json:"schema_version"`
	WrittenAt     time.Time `json:"written_at"`
	DeviceID      string    `json:"device_id"`
	IntegrityTag  string    `json:"integrity_tag"`
}

// RemoteDocument is a downloaded version: its metadata and the verified payload.
type RemoteDocument struct {
	Metadata RemoteDocumentMetadata `json:"metadata"`
	Payload  json.RawMessage        `json:"payload"`
}

// ModuleVersion is the newest known version of a module, used for
// cross-device diagnostics.
type ModuleVersion struct {
	Module    string    `json:"module"`
	WrittenAt time.Time `json:"written_at"`
	DeviceID  string    `json:"device_id"`
}
