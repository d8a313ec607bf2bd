package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/MKhiriev/life-sync/models"
	"github.com/go-resty/resty/v2"
)

// Headers carrying version metadata on upload.
const (
	HeaderWrittenAt     = "X-Written-At"
	HeaderDeviceID      = "X-Device-ID"
	HeaderIntegrityTag  = "X-Integrity-Tag"
	HeaderSchemaVersion = "X-Schema-Version"
)

type httpBackend struct {
	client *utils.HTTPClient
	tokens TokenProvider

	logger *logger.Logger
}

// NewHTTPBackend constructs a [VersionBackend] for the REST document service
// at address:
//
//	POST   /api/documents/{module}                 store a new version
//	GET    /api/documents/{module}/versions        list versions, newest first
//	GET    /api/documents/{module}/versions/{id}   raw version content
//	DELETE /api/documents/{module}/versions/{id}   delete a version
//	GET    /api/documents                          list versions of all modules
//
// Requests carry the bearer token returned by tokens.
func NewHTTPBackend(address string, tokens TokenProvider, log *logger.Logger) (VersionBackend, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(utils.WithBaseURL(baseURL))

	return &httpBackend{client: client, tokens: tokens, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// versionDTO is the wire form of version metadata.
type versionDTO struct {
	ID            string    `json:"id"`
	Module        string    `json:"module"`
	SchemaVersion int       `json:"schema_version"`
	WrittenAt     time.Time `json:"written_at"`
	DeviceID      string    `json:"device_id"`
	IntegrityTag  string    `json:"integrity_tag"`
}

func (v versionDTO) toModel() models.RemoteDocumentMetadata {
	return models.RemoteDocumentMetadata(v)
}

func (h *httpBackend) authedRequest(ctx context.Context) (*resty.Request, error) {
	token, err := h.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	return h.client.R().
		SetContext(ctx).
		SetAuthToken(token), nil
}

func (h *httpBackend) PutVersion(ctx context.Context, meta models.RemoteDocumentMetadata, content []byte) (models.RemoteDocumentMetadata, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.RemoteDocumentMetadata{}, err
	}

	var created versionDTO
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderWrittenAt, meta.WrittenAt.UTC().Format(time.RFC3339Nano)).
		SetHeader(HeaderDeviceID, meta.DeviceID).
		SetHeader(HeaderIntegrityTag, meta.IntegrityTag).
		SetHeader(HeaderSchemaVersion, strconv.Itoa(meta.SchemaVersion)).
		SetPathParam("module", meta.Module).
		SetBody(content).
		SetResult(&created).
		Post("/api/documents/{module}")
	if err != nil {
		return models.RemoteDocumentMetadata{}, fmt.Errorf("put version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteDocumentMetadata{}, err
	}

	meta.ID = created.ID
	h.logger.Debug().Str("func", "httpBackend.PutVersion").Str("module", meta.Module).Str("version_id", meta.ID).Msg("version stored")
	return meta, nil
}

func (h *httpBackend) ListVersions(ctx context.Context, module string) ([]models.RemoteDocumentMetadata, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetPathParam("module", module).
		Get("/api/documents/{module}/versions")
	if err != nil {
		return nil, fmt.Errorf("list versions request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeVersions(resp.Body())
}

func (h *httpBackend) ListAll(ctx context.Context) ([]models.RemoteDocumentMetadata, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/api/documents")
	if err != nil {
		return nil, fmt.Errorf("list documents request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return decodeVersions(resp.Body())
}

func (h *httpBackend) FetchVersion(ctx context.Context, meta models.RemoteDocumentMetadata) ([]byte, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetPathParams(map[string]string{"module": meta.Module, "id": meta.ID}).
		Get("/api/documents/{module}/versions/{id}")
	if err != nil {
		return nil, fmt.Errorf("fetch version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

func (h *httpBackend) DeleteVersion(ctx context.Context, meta models.RemoteDocumentMetadata) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParams(map[string]string{"module": meta.Module, "id": meta.ID}).
		Delete("/api/documents/{module}/versions/{id}")
	if err != nil {
		return fmt.Errorf("delete version request: %w", err)
	}

	return mapHTTPError(resp)
}

func decodeVersions(body []byte) ([]models.RemoteDocumentMetadata, error) {
	var dtos []versionDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("decode versions response: %w", err)
	}

	versions := make([]models.RemoteDocumentMetadata, 0, len(dtos))
	for _, dto := range dtos {
		versions = append(versions, dto.toModel())
	}
	return versions, nil
}
