package main

import (
	"context"
	"fmt"

	"mintforge/internal/batch"
	"mintforge/internal/config"
	"mintforge/internal/records"
	"mintforge/internal/services/ledger"
	"mintforge/internal/services/recordapi"
	"mintforge/internal/services/storage"
)

// buildServices wires the collaborators selected by cfg. The returned close
// func releases the local record store when one was opened.
func buildServices(ctx context.Context, cfg *config.Config) (batch.Services, func(), error) {
	noop := func() {}
	if err := cfg.ValidateServices(); err != nil {
		return batch.Services{}, noop, err
	}

	uploader, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		return batch.Services{}, noop, fmt.Errorf("configure storage: %w", err)
	}

	svc := batch.Services{
		Uploader: uploader,
		Minter:   ledger.NewFromConfig(cfg),
	}
	switch cfg.Records.Backend {
	case config.RecordsBackendLocal:
		store, err := records.Open(cfg)
		if err != nil {
			return batch.Services{}, noop, fmt.Errorf("open record store: %w", err)
		}
		svc.Recorder = store
		return svc, func() { _ = store.Close() }, nil
	default:
		svc.Recorder = recordapi.NewFromConfig(cfg)
		return svc, noop, nil
	}
}
