// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AggregateStatus is the single word summary of the sync subsystem.
type AggregateStatus string

const (
	StatusOffline AggregateStatus = "offline"
	StatusSyncing AggregateStatus = "syncing"
	StatusError   AggregateStatus = "error"
	StatusSynced  AggregateStatus = "synced"
)

// SyncStatus is the observable state of an orchestrator.
type SyncStatus struct {
	Online       bool            `json:"online"`
	Syncing      bool            `json:"syncing"`
	LastSyncAt   *time.Time      `json:"last_sync_at,omitempty"`
	PendingCount int             `json:"pending_count"`
	FailedCount  int             `json:"failed_count"`
	ErrorCount   int             `json:"error_count"`
	Aggregate    AggregateStatus `json:"aggregate"`
}

// DeriveAggregate computes the aggregate value from the other fields:
// offline wins over syncing, syncing over error, error over synced.
func (s SyncStatus) DeriveAggregate() AggregateStatus {
	switch {
	case !s.Online:
		return StatusOffline
	case s.Syncing:
		return StatusSyncing
	case s.ErrorCount > 0:
		return StatusError
	default:
		return StatusSynced
	}
}

// Equal compares two statuses field by field.
func (s SyncStatus) Equal(other SyncStatus) bool {
	if s.Online != other.Online ||
		s.Syncing != other.Syncing ||
		s.PendingCount != other.PendingCount ||
		s.FailedCount != other.FailedCount ||
		s.ErrorCount != other.ErrorCount ||
		s.Aggregate != other.Aggregate {
		return false
	}
	if s.LastSyncAt == nil || other.LastSyncAt == nil {
		return s.LastSyncAt == nil && other.LastSyncAt == nil
	}
	return s.LastSyncAt.Equal(*other.LastSyncAt)
}
