package preflight

import (
	"context"

	"mintforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the checks that apply to cfg's backends.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		results = append(results, CheckBucket(ctx, cfg.Storage))
	default:
		results = append(results, CheckEndpoint(ctx, "Storage", cfg.Storage.URL, cfg.Storage.APIToken))
	}

	results = append(results, CheckEndpoint(ctx, "Ledger", cfg.Ledger.URL, cfg.Ledger.APIToken))

	switch cfg.Records.Backend {
	case config.RecordsBackendLocal:
		results = append(results, CheckDirectoryAccess("Record store", cfg.Paths.StateDir))
	default:
		results = append(results, CheckEndpoint(ctx, "Records", cfg.Records.URL, cfg.Records.APIToken))
	}

	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckEndpoint(ctx, "ntfy", cfg.Notifications.NtfyTopic, ""))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
