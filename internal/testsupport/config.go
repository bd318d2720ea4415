package testsupport

import (
	"path/filepath"
	"testing"

	"mintforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Pacing is disabled so batch tests run without inter-item sleeps.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Workflow.ItemDelayMS = 0
	cfgVal.Storage.URL = "http://127.0.0.1:0/upload"
	cfgVal.Ledger.URL = "http://127.0.0.1:0"
	cfgVal.Records.URL = "http://127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithServiceURLs points the storage, ledger, and record clients at test servers.
// Empty values keep the placeholder.
func WithServiceURLs(storage, ledger, records string) ConfigOption {
	return func(b *configBuilder) {
		if storage != "" {
			b.cfg.Storage.URL = storage
		}
		if ledger != "" {
			b.cfg.Ledger.URL = ledger
		}
		if records != "" {
			b.cfg.Records.URL = records
		}
	}
}

// WithLocalRecords switches record persistence to the SQLite store.
func WithLocalRecords() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Records.Backend = config.RecordsBackendLocal
	}
}

// WithNtfyTopic enables notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
