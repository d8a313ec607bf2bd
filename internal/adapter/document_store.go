// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/MKhiriev/life-sync/models"
)

// DocumentStoreConfig configures [NewDocumentStore].
type DocumentStoreConfig struct {
	// DeviceID is stamped on every uploaded version.
	DeviceID string
	// SchemaVersion is stamped on every uploaded version.
	SchemaVersion int
	// KeepVersions is the number of versions retained per module.
	KeepVersions int
	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration
}

type documentStore struct {
	backend VersionBackend
	limiter *RateLimiter
	cfg     DocumentStoreConfig
	now     func() time.Time

	logger *logger.Logger
}

// NewDocumentStore builds the [RemoteStore] on top of backend. Every backend
// call waits on limiter first (nil disables throttling).
func NewDocumentStore(backend VersionBackend, limiter *RateLimiter, cfg DocumentStoreConfig, log *logger.Logger) RemoteStore {
	if cfg.KeepVersions < 1 {
		cfg.KeepVersions = 5
	}
	if cfg.SchemaVersion < 1 {
		cfg.SchemaVersion = 1
	}

	return &documentStore{
		backend: backend,
		limiter: limiter,
		cfg:     cfg,
		now:     time.Now,
		logger:  log,
	}
}

// call runs fn under the per-call timeout after waiting on the rate limiter.
func (s *documentStore) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	err := fn(ctx)
	if errors.Is(err, ErrRateLimited) && s.limiter != nil {
		s.limiter.RecordRateLimit(0)
	}
	return err
}

func (s *documentStore) Upload(ctx context.Context, module string, payload json.RawMessage) (models.RemoteDocumentMetadata, error) {
	if !json.Valid(payload) {
		return models.RemoteDocumentMetadata{}, fmt.Errorf("upload %s: %w", module, ErrInvalidPayload)
	}

	content := []byte(payload)
	meta := models.RemoteDocumentMetadata{
		Module:        module,
		SchemaVersion: s.cfg.SchemaVersion,
		WrittenAt:     s.now().UTC(),
		DeviceID:      s.cfg.DeviceID,
		IntegrityTag:  IntegrityTag(content),
	}

	err := s.call(ctx, func(ctx context.Context) error {
		stored, err := s.backend.PutVersion(ctx, meta, content)
		if err != nil {
			return err
		}
		meta = stored
		return nil
	})
	if err != nil {
		return models.RemoteDocumentMetadata{}, fmt.Errorf("upload %s: %w", module, err)
	}

	s.prune(ctx, module)

	return meta, nil
}

// prune deletes versions beyond the retained count, oldest first. Failures
// are logged only.
func (s *documentStore) prune(ctx context.Context, module string) {
	logCtx := s.logger.With().Str("func", "documentStore.prune").Str("module", module)
	if opID, ok := utils.GetOperationIDFromContext(ctx); ok {
		logCtx = logCtx.Str("operation_id", opID)
	}
	log := logCtx.Logger()

	versions, err := s.ListVersions(ctx, module)
	if err != nil {
		log.Warn().Err(err).Msg("listing versions for pruning failed")
		return
	}

	if len(versions) <= s.cfg.KeepVersions {
		return
	}

	stale := versions[s.cfg.KeepVersions:]
	for i := len(stale) - 1; i >= 0; i-- {
		version := stale[i]
		err := s.call(ctx, func(ctx context.Context) error {
			return s.backend.DeleteVersion(ctx, version)
		})
		if err != nil && !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("version_id", version.ID).Msg("pruning old version failed")
			continue
		}
		log.Debug().Str("version_id", version.ID).Time("written_at", version.WrittenAt).Msg("old version pruned")
	}
}

func (s *documentStore) ListVersions(ctx context.Context, module string) ([]models.RemoteDocumentMetadata, error) {
	var versions []models.RemoteDocumentMetadata
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		versions, err = s.backend.ListVersions(ctx, module)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", module, err)
	}

	sortNewestFirst(versions)
	return versions, nil
}

func (s *documentStore) DownloadLatest(ctx context.Context, module string) (*models.RemoteDocument, error) {
	versions, err := s.ListVersions(ctx, module)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}

	return s.DownloadVersion(ctx, versions[0])
}

func (s *documentStore) DownloadVersion(ctx context.Context, meta models.RemoteDocumentMetadata) (*models.RemoteDocument, error) {
	var content []byte
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		content, err = s.backend.FetchVersion(ctx, meta)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download %s version %s: %w", meta.Module, meta.ID, err)
	}

	if !verifyIntegrity(content, meta.IntegrityTag) {
		return nil, fmt.Errorf("download %s version %s: integrity tag mismatch: %w", meta.Module, meta.ID, ErrCorruptDocument)
	}
	if !json.Valid(content) {
		return nil, fmt.Errorf("download %s version %s: invalid json: %w", meta.Module, meta.ID, ErrCorruptDocument)
	}

	return &models.RemoteDocument{Metadata: meta, Payload: json.RawMessage(content)}, nil
}

func (s *documentStore) HasRemoteChanges(ctx context.Context, module string, since time.Time) (bool, error) {
	versions, err := s.ListVersions(ctx, module)
	if err != nil {
		return false, err
	}
	if len(versions) == 0 {
		return false, nil
	}

	return versions[0].WrittenAt.After(since), nil
}

func (s *documentStore) ListModules(ctx context.Context) ([]models.ModuleVersion, error) {
	var all []models.RemoteDocumentMetadata
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		all, err = s.backend.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	newest := make(map[string]models.RemoteDocumentMetadata)
	for _, meta := range all {
		if current, ok := newest[meta.Module]; !ok || meta.WrittenAt.After(current.WrittenAt) {
			newest[meta.Module] = meta
		}
	}

	modules := make([]models.ModuleVersion, 0, len(newest))
	for _, meta := range newest {
		modules = append(modules, models.ModuleVersion{
			Module:    meta.Module,
			WrittenAt: meta.WrittenAt,
			DeviceID:  meta.DeviceID,
		})
	}
	slices.SortFunc(modules, func(a, b models.ModuleVersion) int {
		return cmp.Compare(a.Module, b.Module)
	})

	return modules, nil
}

func (s *documentStore) DeleteModule(ctx context.Context, module string) error {
	versions, err := s.ListVersions(ctx, module)
	if err != nil {
		return err
	}

	var errs []error
	for _, version := range versions {
		err := s.call(ctx, func(ctx context.Context) error {
			return s.backend.DeleteVersion(ctx, version)
		})
		if err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("delete %s: %w", module, err)
	}
	return nil
}

func sortNewestFirst(versions []models.RemoteDocumentMetadata) {
	slices.SortStableFunc(versions, func(a, b models.RemoteDocumentMetadata) int {
		return b.WrittenAt.Compare(a.WrittenAt)
	})
}
