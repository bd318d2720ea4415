// Package recordapi persists minted token records through the host
// application's REST record service.
package recordapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mintforge/internal/config"
	"mintforge/internal/records"
	"mintforge/internal/services"
)

const stageName = "persist"

// HTTPRecorder posts records to <base>/collections/{id}/nfts.
type HTTPRecorder struct {
	baseURL string
	token   string
	client  services.HTTPDoer
}

// NewHTTPRecorder constructs a recorder for the service at baseURL.
func NewHTTPRecorder(baseURL, token string, client services.HTTPDoer) *HTTPRecorder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRecorder{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
	}
}

// NewFromConfig builds a recorder from the [records] config section.
func NewFromConfig(cfg *config.Config) *HTTPRecorder {
	client := &http.Client{Timeout: time.Duration(cfg.Records.TimeoutSeconds) * time.Second}
	return NewHTTPRecorder(cfg.Records.URL, cfg.Records.APIToken, client)
}

// CreateRecord persists rec and returns the record the service stored.
func (r *HTTPRecorder) CreateRecord(ctx context.Context, rec records.NewRecord) (records.Record, error) {
	if r == nil || r.baseURL == "" {
		return records.Record{}, services.Wrap(services.ErrConfiguration, stageName, "create record", "records url not configured", nil)
	}
	if err := rec.Validate(); err != nil {
		return records.Record{}, services.Wrap(services.ErrValidation, stageName, "create record", "", err)
	}

	endpoint := r.baseURL + "/collections/" + url.PathEscape(rec.CollectionID) + "/nfts"
	req, err := services.NewJSONRequest(ctx, http.MethodPost, endpoint, r.token, rec)
	if err != nil {
		return records.Record{}, services.Wrap(services.ErrPersist, stageName, "build request", "", err)
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}

	var stored records.Record
	if err := services.DoJSON(r.client, "records", req, &stored); err != nil {
		return records.Record{}, services.Wrap(services.ErrPersist, stageName, "create record", rec.Name, err)
	}
	fillDefaults(&stored, rec)
	return stored, nil
}

// fillDefaults backfills fields a terse service response may omit.
func fillDefaults(stored *records.Record, rec records.NewRecord) {
	if stored.CollectionID == "" {
		stored.CollectionID = rec.CollectionID
	}
	if stored.Name == "" {
		stored.Name = rec.Name
	}
	if stored.Description == "" {
		stored.Description = rec.Description
	}
	if stored.Image == "" {
		stored.Image = rec.Image
	}
	if stored.Attributes == nil {
		stored.Attributes = rec.Attributes
	}
	if stored.TransactionID == "" {
		stored.TransactionID = rec.TransactionID
	}
	if stored.OwnerAddress == "" {
		stored.OwnerAddress = rec.OwnerAddress
	}
	if stored.MetadataURI == "" {
		stored.MetadataURI = rec.MetadataURI
	}
	if stored.BatchID == "" {
		stored.BatchID = rec.BatchID
	}
	if stored.RowIndex == 0 {
		stored.RowIndex = rec.RowIndex
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
}
