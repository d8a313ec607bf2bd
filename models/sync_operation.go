// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// OperationKind identifies what a [SyncOperation] does against the remote store.
type OperationKind string

const (
	// OperationUpload pushes the full local module document as a new remote version.
	OperationUpload OperationKind = "upload"
	// OperationDownload fetches the newest remote version of a module.
	OperationDownload OperationKind = "download"
	// OperationDelete removes every remote version of a module.
	OperationDelete OperationKind = "delete"
)

// Valid reports whether k is one of the known operation kinds.
func (k OperationKind) Valid() bool {
	switch k {
	case OperationUpload, OperationDownload, OperationDelete:
		return true
	default:
		return false
	}
}

// OperationState is the lifecycle state of a [SyncOperation].
//
// Allowed transitions: Pending -> Processing -> {Completed | Pending | Failed}.
// Completed and Failed are terminal.
type OperationState string

const (
	OperationPending    OperationState = "pending"
	OperationProcessing OperationState = "processing"
	OperationCompleted  OperationState = "completed"
	OperationFailed     OperationState = "failed"
)

// Terminal reports whether no further transitions are allowed from s.
func (s OperationState) Terminal() bool {
	return s == OperationCompleted || s == OperationFailed
}

// SyncOperation is a single queued unit of sync work for one module.
type SyncOperation struct {
	// ID is an opaque unique token (UUIDv7).
	ID string `json:"id"`

	// Kind is the operation type.
	Kind OperationKind `json:"kind"`

	// Module is the key of the module document the operation targets.
	Module string `json:"module"`

	// Payload is the full module document. Required for uploads, empty otherwise.
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt orders operations inside a drain.
	CreatedAt time.Time `json:"created_at"`

	// RetryCount is the number of retries already scheduled.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the retry budget requested at enqueue time (>= 1).
	MaxRetries int `json:"max_retries"`

	// State is the current lifecycle state.
	State OperationState `json:"state"`

	// NextAttemptAt holds back a retried operation until its backoff elapsed.
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`

	// LastError is the message of the most recent failure, kept for diagnostics.
	LastError string `json:"last_error,omitempty"`

	// LastErrorKind is the classified category of the most recent failure.
	LastErrorKind string `json:"last_error_kind,omitempty"`
}

// ReadyAt reports whether the operation may be attempted at now.
func (o SyncOperation) ReadyAt(now time.Time) bool {
	return o.NextAttemptAt == nil || !o.NextAttemptAt.After(now)
}
