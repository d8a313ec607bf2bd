package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) (*sqliteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	l := logger.Nop()
	s := &sqliteStore{
		DB:     &DB{DB: db, logger: l},
		now:    func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) },
		logger: l,
	}
	return s, mock
}

// ── Get ─────────────────────────────────────────────────────────────────────

func TestSQLiteStore_Get_Success(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT item_value FROM kv_store WHERE item_key = ?")).
		WithArgs("device_id").
		WillReturnRows(sqlmock.NewRows([]string{"item_value"}).AddRow([]byte("abc")))

	value, err := s.Get(context.Background(), "device_id")

	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_Get_NotFound(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	mock.ExpectQuery("SELECT item_value FROM kv_store").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStore_Get_DBError(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	mock.ExpectQuery("SELECT item_value FROM kv_store").
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.Get(context.Background(), "k")

	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}

// ── Set ─────────────────────────────────────────────────────────────────────

func TestSQLiteStore_Set_Upserts(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO kv_store (item_key,item_value,updated_at) VALUES (?,?,?) "+
			"ON CONFLICT(item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at")).
		WithArgs("sync_queue", []byte(`{}`), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Set(context.Background(), "sync_queue", []byte(`{}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_Set_DBError(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	mock.ExpectExec("INSERT INTO kv_store").
		WillReturnError(errors.New("database is locked"))

	err := s.Set(context.Background(), "k", []byte("v"))

	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestSQLiteStore_Set_RetriesBusyDatabase(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	mock.ExpectExec("INSERT INTO kv_store").WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	mock.ExpectExec("INSERT INTO kv_store").WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_Set_GivesUpAfterAttempts(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	for range writeAttempts {
		mock.ExpectExec("INSERT INTO kv_store").WillReturnError(sqlite3.Error{Code: sqlite3.ErrLocked})
	}

	err := s.Set(context.Background(), "k", []byte("v"))

	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── ClassifySQLiteError ─────────────────────────────────────────────────────

func TestClassifySQLiteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: Retryable},
		{name: "locked", err: sqlite3.Error{Code: sqlite3.ErrLocked}, want: Retryable},
		{name: "wrapped busy", err: fmt.Errorf("exec: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), want: Retryable},
		{name: "constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: NonRetryable},
		{name: "corrupt", err: sqlite3.Error{Code: sqlite3.ErrCorrupt}, want: NonRetryable},
		{name: "not a driver error", err: errors.New("boom"), want: NonRetryable},
		{name: "nil", err: nil, want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySQLiteError(tt.err))
		})
	}
}

// ── Remove ──────────────────────────────────────────────────────────────────

func TestSQLiteStore_Remove(t *testing.T) {
	s, mock := newTestSQLiteStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_store WHERE item_key = ?")).
		WithArgs("auth_token").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Remove(context.Background(), "auth_token"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── memory ──────────────────────────────────────────────────────────────────

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	value := []byte("v1")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'X' // store keeps its own copy

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, m.Set(ctx, "k", []byte("v2")))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, m.Remove(ctx, "k"))
	require.NoError(t, m.Remove(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
