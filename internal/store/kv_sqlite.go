// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/life-sync/internal/logger"
)

const (
	kvTable       = "kv_store"
	kvKeyColumn   = "item_key"
	kvValueColumn = "item_value"
	kvUpdatedAt   = "updated_at"
)

// a statement failing on lock contention is executed up to writeAttempts times
const (
	writeAttempts   = 3
	writeRetryPause = 50 * time.Millisecond
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type sqliteStore struct {
	*DB
	now    func() time.Time
	logger *logger.Logger
}

// NewSQLiteStore returns a [LocalStore] backed by the kv_store table of db.
func NewSQLiteStore(db *DB, log *logger.Logger) LocalStore {
	return &sqliteStore{DB: db, now: time.Now, logger: log}
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.
		Select(kvValueColumn).
		From(kvTable).
		Where(sq.Eq{kvKeyColumn: key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value []byte
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteStore.Get").Str("key", key).Msg("failed to read value")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := psql.
		Insert(kvTable).
		Columns(kvKeyColumn, kvValueColumn, kvUpdatedAt).
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT(" + kvKeyColumn + ") DO UPDATE SET " +
			kvValueColumn + " = excluded." + kvValueColumn + ", " +
			kvUpdatedAt + " = excluded." + kvUpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = s.exec(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteStore.Set").Str("key", key).Msg("failed to upsert value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteStore) Remove(ctx context.Context, key string) error {
	query, args, err := psql.
		Delete(kvTable).
		Where(sq.Eq{kvKeyColumn: key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = s.exec(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteStore.Remove").Str("key", key).Msg("failed to delete value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteStore) exec(ctx context.Context, query string, args ...any) error {
	var err error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if _, err = s.DB.ExecContext(ctx, query, args...); err == nil {
			return nil
		}
		if ClassifySQLiteError(err) != Retryable || attempt == writeAttempts {
			return err
		}

		s.logger.Debug().Err(err).Int("attempt", attempt).Msg("database busy, retrying statement")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(writeRetryPause):
		}
	}
	return err
}
