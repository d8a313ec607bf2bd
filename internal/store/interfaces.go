// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the local persistent store: a crash-durable
// key/value slot store backed by SQLite, an in-memory variant for tests and
// ephemeral runs, and a typed repository for the sync state kept in it.
package store

import (
	"context"

	"github.com/MKhiriev/life-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalStore is a durable key/value store with last-writer-wins semantics.
type LocalStore interface {
	// Get returns the value stored under key or [ErrKeyNotFound].
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// SyncStateRepository persists the orchestrator queue, module records and
// the device identity.
type SyncStateRepository interface {
	// LoadSnapshot returns the persisted queue snapshot; ok is false when
	// nothing was persisted yet.
	LoadSnapshot(ctx context.Context) (snapshot models.QueueSnapshot, ok bool, err error)
	SaveSnapshot(ctx context.Context, snapshot models.QueueSnapshot) error

	// LoadModule returns the local record of module; ok is false when the
	// module has no local record.
	LoadModule(ctx context.Context, module string) (record models.ModuleRecord, ok bool, err error)
	SaveModule(ctx context.Context, module string, record models.ModuleRecord) error
	RemoveModule(ctx context.Context, module string) error

	// DeviceID returns the stable id of this installation, creating it on
	// first use.
	DeviceID(ctx context.Context) (string, error)
}
