package store

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/life-sync/internal/config"
	"github.com/MKhiriev/life-sync/internal/logger"
)

// ClientStorages groups the local persistence of the client.
type ClientStorages struct {
	// KV is the raw durable key/value store.
	KV LocalStore
	// SyncState is the typed view of the sync state kept in KV.
	SyncState SyncStateRepository

	closer io.Closer
}

// NewClientStorages opens the SQLite database at cfg.DB.DSN, applies pending
// migrations and wires the repositories on top of it.
func NewClientStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	kv := NewSQLiteStore(db, log)
	return &ClientStorages{
		KV:        kv,
		SyncState: NewSyncStateRepository(kv, log),
		closer:    db,
	}, nil
}

// NewMemoryStorages wires the repositories over an in-memory store.
func NewMemoryStorages(log *logger.Logger) *ClientStorages {
	kv := NewMemoryStore()
	return &ClientStorages{
		KV:        kv,
		SyncState: NewSyncStateRepository(kv, log),
	}
}

// Close releases the database.
func (s *ClientStorages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
