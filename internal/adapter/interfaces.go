// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the Remote Store Adapter: full-document upload,
// latest-version download, change polling and version pruning on top of a
// pluggable document backend.
//
// [NewDocumentStore] builds the single [RemoteStore] implementation over a
// [VersionBackend]. Two backends ship with the package: Google Drive's
// application data folder ([NewDriveBackend]) and a REST document service
// ([NewHTTPBackend]).
//
// Backends map transport failures to the sentinel values defined in
// errors.go so that callers can use [errors.Is] regardless of the backend.
// The adapter performs no retries.
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/life-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is the remote side of module synchronization. It is stateless
// per call; every method runs under the configured per-call timeout.
type RemoteStore interface {
	// Upload stores payload as a new version of module, tagged with the
	// upload time, the device id and an integrity tag, then prunes the
	// module down to the retained number of versions. Pruning failures are
	// logged and never fail the upload.
	Upload(ctx context.Context, module string, payload json.RawMessage) (models.RemoteDocumentMetadata, error)

	// DownloadLatest returns the newest version of module, or nil when the
	// module has never been uploaded. A version failing verification is
	// reported as [ErrCorruptDocument].
	DownloadLatest(ctx context.Context, module string) (*models.RemoteDocument, error)

	// ListVersions returns the metadata of all stored versions of module,
	// newest first.
	ListVersions(ctx context.Context, module string) ([]models.RemoteDocumentMetadata, error)

	// DownloadVersion fetches and verifies one specific version.
	DownloadVersion(ctx context.Context, meta models.RemoteDocumentMetadata) (*models.RemoteDocument, error)

	// HasRemoteChanges reports whether a version of module newer than since
	// exists. Only metadata is transferred.
	HasRemoteChanges(ctx context.Context, module string, since time.Time) (bool, error)

	// ListModules returns the newest version descriptor of every module.
	ListModules(ctx context.Context) ([]models.ModuleVersion, error)

	// DeleteModule removes every stored version of module.
	DeleteModule(ctx context.Context, module string) error
}

// VersionBackend is a storage service able to keep several tagged versions of
// a document per module.
type VersionBackend interface {
	// PutVersion writes content as a new version described by meta and
	// returns meta completed with the backend id.
	PutVersion(ctx context.Context, meta models.RemoteDocumentMetadata, content []byte) (models.RemoteDocumentMetadata, error)

	// ListVersions returns the versions of module, newest first.
	ListVersions(ctx context.Context, module string) ([]models.RemoteDocumentMetadata, error)

	// FetchVersion returns the raw content of one version.
	FetchVersion(ctx context.Context, meta models.RemoteDocumentMetadata) ([]byte, error)

	// DeleteVersion removes one version.
	DeleteVersion(ctx context.Context, meta models.RemoteDocumentMetadata) error

	// ListAll returns the versions of every module.
	ListAll(ctx context.Context) ([]models.RemoteDocumentMetadata, error)
}

// TokenProvider supplies bearer tokens to backends that authenticate
// requests themselves.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}
