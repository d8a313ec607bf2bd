// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	appDataFolder = "appDataFolder"
	documentMime  = "application/json"

	propModule        = "module"
	propWrittenAt     = "writtenAt"
	propDeviceID      = "deviceId"
	propIntegrityTag  = "integrityTag"
	propSchemaVersion = "schemaVersion"

	driveFileFields = "id, appProperties, modifiedTime"
	drivePageSize   = 100
)

type driveBackend struct {
	service *drive.Service
	logger  *logger.Logger
}

// NewDriveBackend builds a [VersionBackend] storing every version as its own
// file inside the Drive application data folder. ts supplies OAuth tokens;
// extra options are passed to the Drive client (e.g. option.WithEndpoint in
// tests).
func NewDriveBackend(ctx context.Context, ts oauth2.TokenSource, log *logger.Logger, opts ...option.ClientOption) (VersionBackend, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &driveBackend{service: service, logger: log}, nil
}

func (d *driveBackend) PutVersion(ctx context.Context, meta models.RemoteDocumentMetadata, content []byte) (models.RemoteDocumentMetadata, error) {
	file := &drive.File{
		Name:          fmt.Sprintf("%s-%d.json", meta.Module, meta.WrittenAt.UnixMilli()),
		MimeType:      documentMime,
		Parents:       []string{appDataFolder},
		AppProperties: toAppProperties(meta),
	}

	created, err := d.service.Files.Create(file).
		Media(bytes.NewReader(content)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return models.RemoteDocumentMetadata{}, mapGoogleError(err)
	}

	meta.ID = created.Id
	return meta, nil
}

func (d *driveBackend) ListVersions(ctx context.Context, module string) ([]models.RemoteDocumentMetadata, error) {
	query := fmt.Sprintf("appProperties has { key='%s' and value='%s' } and trashed = false",
		propModule, escapeQueryValue(module))
	return d.list(ctx, query)
}

func (d *driveBackend) ListAll(ctx context.Context) ([]models.RemoteDocumentMetadata, error) {
	return d.list(ctx, "trashed = false")
}

func (d *driveBackend) list(ctx context.Context, query string) ([]models.RemoteDocumentMetadata, error) {
	var versions []models.RemoteDocumentMetadata

	call := d.service.Files.List().
		Spaces(appDataFolder).
		Q(query).
		OrderBy("modifiedTime desc").
		PageSize(drivePageSize).
		Fields("nextPageToken, files(" + driveFileFields + ")")

	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, file := range page.Files {
			meta, ok := fromDriveFile(file)
			if !ok {
				d.logger.Debug().Str("func", "driveBackend.list").Str("file_id", file.Id).Msg("skipping file without sync properties")
				continue
			}
			versions = append(versions, meta)
		}
		return nil
	})
	if err != nil {
		return nil, mapGoogleError(err)
	}

	return versions, nil
}

func (d *driveBackend) FetchVersion(ctx context.Context, meta models.RemoteDocumentMetadata) ([]byte, error) {
	resp, err := d.service.Files.Get(meta.ID).Context(ctx).Download()
	if err != nil {
		return nil, mapGoogleError(err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read drive file %s: %w", meta.ID, err)
	}
	return content, nil
}

func (d *driveBackend) DeleteVersion(ctx context.Context, meta models.RemoteDocumentMetadata) error {
	return mapGoogleError(d.service.Files.Delete(meta.ID).Context(ctx).Do())
}

func toAppProperties(meta models.RemoteDocumentMetadata) map[string]string {
	return map[string]string{
		propModule:        meta.Module,
		propWrittenAt:     meta.WrittenAt.UTC().Format(time.RFC3339Nano),
		propDeviceID:      meta.DeviceID,
		propIntegrityTag:  meta.IntegrityTag,
		propSchemaVersion: strconv.Itoa(meta.SchemaVersion),
	}
}

// fromDriveFile reads version metadata from the file's app properties. Files
// without a module property were not written by this client.
func fromDriveFile(file *drive.File) (models.RemoteDocumentMetadata, bool) {
	props := file.AppProperties
	module := props[propModule]
	if module == "" {
		return models.RemoteDocumentMetadata{}, false
	}

	writtenAt, err := time.Parse(time.RFC3339Nano, props[propWrittenAt])
	if err != nil {
		// fall back to the server side modification time
		writtenAt, err = time.Parse(time.RFC3339, file.ModifiedTime)
		if err != nil {
			return models.RemoteDocumentMetadata{}, false
		}
	}

	schemaVersion, _ := strconv.Atoi(props[propSchemaVersion])

	return models.RemoteDocumentMetadata{
		ID:            file.Id,
		Module:        module,
		SchemaVersion: schemaVersion,
		WrittenAt:     writtenAt,
		DeviceID:      props[propDeviceID],
		IntegrityTag:  props[propIntegrityTag],
	}, true
}

func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
