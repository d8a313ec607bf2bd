package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend - хранилище версий в памяти
type fakeBackend struct {
	mu       sync.Mutex
	seq      int
	versions map[string][]byte
	metas    []models.RemoteDocumentMetadata

	putErr    error
	listErr   error
	deleteErr error
	fetchErr  error
	deleted   []string
	block     chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{versions: make(map[string][]byte)}
}

func (f *fakeBackend) PutVersion(ctx context.Context, meta models.RemoteDocumentMetadata, content []byte) (models.RemoteDocumentMetadata, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return models.RemoteDocumentMetadata{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return models.RemoteDocumentMetadata{}, f.putErr
	}
	f.seq++
	meta.ID = fmt.Sprintf("v%d", f.seq)
	f.versions[meta.ID] = append([]byte(nil), content...)
	f.metas = append(f.metas, meta)
	return meta, nil
}

func (f *fakeBackend) ListVersions(_ context.Context, module string) ([]models.RemoteDocumentMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.RemoteDocumentMetadata
	// oldest first on purpose: the store must sort
	for _, m := range f.metas {
		if m.Module == module {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeBackend) FetchVersion(_ context.Context, meta models.RemoteDocumentMetadata) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	content, ok := f.versions[meta.ID]
	if !ok {
		return nil, ErrNotFound
	}
	return content, nil
}

func (f *fakeBackend) DeleteVersion(_ context.Context, meta models.RemoteDocumentMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.versions, meta.ID)
	for i, m := range f.metas {
		if m.ID == meta.ID {
			f.metas = append(f.metas[:i], f.metas[i+1:]...)
			break
		}
	}
	f.deleted = append(f.deleted, meta.ID)
	return nil
}

func (f *fakeBackend) ListAll(_ context.Context) ([]models.RemoteDocumentMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.RemoteDocumentMetadata(nil), f.metas...), nil
}

func (f *fakeBackend) count(module string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.metas {
		if m.Module == module {
			n++
		}
	}
	return n
}

// newTestStore создаёт documentStore с управляемыми часами
func newTestStore(t *testing.T, backend VersionBackend) (*documentStore, *time.Time) {
	t.Helper()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewDocumentStore(backend, nil, DocumentStoreConfig{
		DeviceID:       "device-1",
		SchemaVersion:  2,
		KeepVersions:   5,
		RequestTimeout: time.Second,
	}, logger.Nop()).(*documentStore)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s, &clock
}

// ── Upload ──────────────────────────────────────────────────────────────────

func TestUpload_StoresTaggedVersion(t *testing.T) {
	backend := newFakeBackend()
	s, clock := newTestStore(t, backend)

	payload := json.RawMessage(`{"name":"Ann"}`)
	meta, err := s.Upload(context.Background(), "profile", payload)

	require.NoError(t, err)
	assert.Equal(t, "v1", meta.ID)
	assert.Equal(t, "profile", meta.Module)
	assert.Equal(t, "device-1", meta.DeviceID)
	assert.Equal(t, 2, meta.SchemaVersion)
	assert.Equal(t, *clock, meta.WrittenAt)
	assert.Equal(t, IntegrityTag(payload), meta.IntegrityTag)
	assert.Equal(t, []byte(payload), backend.versions["v1"])
}

func TestUpload_RejectsInvalidJSON(t *testing.T) {
	s, _ := newTestStore(t, newFakeBackend())

	_, err := s.Upload(context.Background(), "profile", json.RawMessage(`{not json`))

	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestUpload_PropagatesBackendError(t *testing.T) {
	backend := newFakeBackend()
	backend.putErr = fmt.Errorf("%w: boom", ErrServerUnavailable)
	s, _ := newTestStore(t, backend)

	_, err := s.Upload(context.Background(), "profile", json.RawMessage(`{}`))

	assert.ErrorIs(t, err, ErrServerUnavailable)
}

func TestUpload_PrunesToFiveVersionsOldestFirst(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	for i := 0; i < 8; i++ {
		_, err := s.Upload(context.Background(), "mood", json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)))
		require.NoError(t, err)
		assert.LessOrEqual(t, backend.count("mood"), 5)
	}

	assert.Equal(t, 5, backend.count("mood"))
	assert.Equal(t, []string{"v1", "v2", "v3"}, backend.deleted)

	latest, err := s.DownloadLatest(context.Background(), "mood")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":7}`, string(latest.Payload))
}

func TestUpload_PruneFailureDoesNotFailUpload(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	for i := 0; i < 5; i++ {
		_, err := s.Upload(context.Background(), "tasks", json.RawMessage(`[]`))
		require.NoError(t, err)
	}

	backend.deleteErr = errors.New("delete failed")
	_, err := s.Upload(context.Background(), "tasks", json.RawMessage(`[1]`))

	require.NoError(t, err)
	assert.Equal(t, 6, backend.count("tasks"))
}

func TestUpload_RespectsRequestTimeout(t *testing.T) {
	backend := newFakeBackend()
	backend.block = make(chan struct{})
	s, _ := newTestStore(t, backend)
	s.cfg.RequestTimeout = 20 * time.Millisecond

	_, err := s.Upload(context.Background(), "profile", json.RawMessage(`{}`))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ── Download ────────────────────────────────────────────────────────────────

func TestDownloadLatest_NoVersions(t *testing.T) {
	s, _ := newTestStore(t, newFakeBackend())

	doc, err := s.DownloadLatest(context.Background(), "profile")

	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDownloadLatest_ReturnsNewest(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	_, err := s.Upload(context.Background(), "profile", json.RawMessage(`{"v":1}`))
	require.NoError(t, err)
	second, err := s.Upload(context.Background(), "profile", json.RawMessage(`{"v":2}`))
	require.NoError(t, err)

	doc, err := s.DownloadLatest(context.Background(), "profile")

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, second, doc.Metadata)
	assert.JSONEq(t, `{"v":2}`, string(doc.Payload))
}

func TestDownloadVersion_IntegrityMismatch(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	meta, err := s.Upload(context.Background(), "profile", json.RawMessage(`{"v":1}`))
	require.NoError(t, err)
	backend.versions[meta.ID] = []byte(`{"v":666}`)

	_, err = s.DownloadLatest(context.Background(), "profile")

	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestDownloadVersion_InvalidJSONWithoutTag(t *testing.T) {
	backend := newFakeBackend()
	backend.versions["x"] = []byte(`{{{`)
	s, _ := newTestStore(t, backend)

	_, err := s.DownloadVersion(context.Background(), models.RemoteDocumentMetadata{ID: "x", Module: "profile"})

	assert.ErrorIs(t, err, ErrCorruptDocument)
}

// ── HasRemoteChanges ────────────────────────────────────────────────────────

func TestHasRemoteChanges(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	changed, err := s.HasRemoteChanges(context.Background(), "mood", time.Time{})
	require.NoError(t, err)
	assert.False(t, changed, "no versions means no changes")

	meta, err := s.Upload(context.Background(), "mood", json.RawMessage(`{}`))
	require.NoError(t, err)

	changed, err = s.HasRemoteChanges(context.Background(), "mood", meta.WrittenAt.Add(-time.Millisecond))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.HasRemoteChanges(context.Background(), "mood", meta.WrittenAt)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestHasRemoteChanges_PropagatesError(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = ErrUnauthorized
	s, _ := newTestStore(t, backend)

	_, err := s.HasRemoteChanges(context.Background(), "mood", time.Time{})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── ListModules / DeleteModule ──────────────────────────────────────────────

func TestListModules_NewestPerModule(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	_, err := s.Upload(context.Background(), "profile", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.Upload(context.Background(), "mood", json.RawMessage(`{}`))
	require.NoError(t, err)
	last, err := s.Upload(context.Background(), "profile", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)

	modules, err := s.ListModules(context.Background())

	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "mood", modules[0].Module)
	assert.Equal(t, "profile", modules[1].Module)
	assert.Equal(t, last.WrittenAt, modules[1].WrittenAt)
	assert.Equal(t, "device-1", modules[1].DeviceID)
}

func TestDeleteModule_RemovesAllVersions(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	for i := 0; i < 3; i++ {
		_, err := s.Upload(context.Background(), "reminders", json.RawMessage(`{}`))
		require.NoError(t, err)
	}
	_, err := s.Upload(context.Background(), "profile", json.RawMessage(`{}`))
	require.NoError(t, err)

	require.NoError(t, s.DeleteModule(context.Background(), "reminders"))

	assert.Zero(t, backend.count("reminders"))
	assert.Equal(t, 1, backend.count("profile"))
}

func TestDeleteModule_JoinsErrors(t *testing.T) {
	backend := newFakeBackend()
	s, _ := newTestStore(t, backend)

	_, err := s.Upload(context.Background(), "reminders", json.RawMessage(`{}`))
	require.NoError(t, err)
	backend.deleteErr = ErrForbidden

	err = s.DeleteModule(context.Background(), "reminders")

	assert.ErrorIs(t, err, ErrForbidden)
}
