// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// ConflictRecord captures a divergence between the local and the remote
// document of one module. The local payload is kept here untouched until the
// conflict is resolved.
type ConflictRecord struct {
	ID            string          `json:"id"`
	Module        string          `json:"module"`
	LocalPayload  json.RawMessage `json:"local_payload"`
	RemotePayload json.RawMessage `json:"remote_payload"`
	DetectedAt    time.Time       `json:"detected_at"`
	Resolved      bool            `json:"resolved"`

	// LocalTimestamp is the local module timestamp at detection time.
	LocalTimestamp time.Time `json:"local_timestamp"`

	// RemoteWrittenAt is the writtenAt of the remote version in conflict.
	RemoteWrittenAt time.Time `json:"remote_written_at"`

	// RemoteDeviceID is the installation that wrote the remote version.
	RemoteDeviceID string `json:"remote_device_id,omitempty"`
}
