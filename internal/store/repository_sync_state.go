package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/MKhiriev/life-sync/models"
)

// Keys of the local persisted state.
const (
	KeySyncQueue    = "sync_queue"
	KeyDeviceID     = "device_id"
	KeyAuthToken    = "auth_token"
	moduleKeyPrefix = "module:"
)

// ModuleKey is the key under which the record of module is stored.
func ModuleKey(module string) string {
	return moduleKeyPrefix + module
}

type syncStateRepository struct {
	kv     LocalStore
	ids    *utils.UUIDGenerator
	logger *logger.Logger

	deviceMu sync.Mutex
	deviceID string
}

// NewSyncStateRepository returns a [SyncStateRepository] on top of kv.
func NewSyncStateRepository(kv LocalStore, log *logger.Logger) SyncStateRepository {
	return &syncStateRepository{
		kv:     kv,
		ids:    utils.NewUUIDGenerator(),
		logger: log,
	}
}

func (r *syncStateRepository) LoadSnapshot(ctx context.Context) (models.QueueSnapshot, bool, error) {
	var snapshot models.QueueSnapshot
	ok, err := r.getJSON(ctx, KeySyncQueue, &snapshot)
	if err != nil || !ok {
		return models.QueueSnapshot{}, false, err
	}
	return snapshot, true, nil
}

func (r *syncStateRepository) SaveSnapshot(ctx context.Context, snapshot models.QueueSnapshot) error {
	return r.setJSON(ctx, KeySyncQueue, snapshot)
}

func (r *syncStateRepository) LoadModule(ctx context.Context, module string) (models.ModuleRecord, bool, error) {
	var record models.ModuleRecord
	ok, err := r.getJSON(ctx, ModuleKey(module), &record)
	if err != nil || !ok {
		return models.ModuleRecord{}, false, err
	}
	return record, true, nil
}

func (r *syncStateRepository) SaveModule(ctx context.Context, module string, record models.ModuleRecord) error {
	return r.setJSON(ctx, ModuleKey(module), record)
}

func (r *syncStateRepository) RemoveModule(ctx context.Context, module string) error {
	return r.kv.Remove(ctx, ModuleKey(module))
}

func (r *syncStateRepository) DeviceID(ctx context.Context) (string, error) {
	r.deviceMu.Lock()
	defer r.deviceMu.Unlock()

	if r.deviceID != "" {
		return r.deviceID, nil
	}

	value, err := r.kv.Get(ctx, KeyDeviceID)
	switch {
	case err == nil && len(value) > 0:
		r.deviceID = string(value)
		return r.deviceID, nil
	case err != nil && !errors.Is(err, ErrKeyNotFound):
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := r.ids.Generate()
	if err = r.kv.Set(ctx, KeyDeviceID, []byte(id)); err != nil {
		return "", fmt.Errorf("store device id: %w", err)
	}
	r.logger.Info().Str("func", "syncStateRepository.DeviceID").Str("device_id", id).Msg("generated new device id")

	r.deviceID = id
	return id, nil
}

func (r *syncStateRepository) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	value, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if err = json.Unmarshal(value, dst); err != nil {
		r.logger.Err(err).Str("func", "syncStateRepository.getJSON").Str("key", key).Msg("stored value is not valid json")
		return false, fmt.Errorf("%w: %s: %w", ErrDecodingValue, key, err)
	}
	return true, nil
}

func (r *syncStateRepository) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err = r.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
