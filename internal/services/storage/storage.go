package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mintforge/internal/assets"
	"mintforge/internal/config"
	"mintforge/internal/services"
)

const stageName = "upload"

// Uploader stores an asset and returns its URI.
type Uploader interface {
	Upload(ctx context.Context, file assets.File) (string, error)
}

// NewFromConfig builds the uploader selected by cfg.Storage.Backend.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Uploader, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "configure", "config is nil", nil)
	}
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		return NewS3Uploader(ctx, cfg.Storage)
	case config.StorageBackendHTTP:
		client := &http.Client{Timeout: time.Duration(cfg.Storage.TimeoutSeconds) * time.Second}
		return NewHTTPUploader(cfg.Storage.URL, cfg.Storage.APIToken, client), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, stageName, "configure",
			fmt.Sprintf("unsupported storage backend %q", cfg.Storage.Backend), nil)
	}
}
