package config

const (
	defaultConfigPath           = "~/.config/mintforge/config.toml"
	defaultStateDir             = "~/.local/share/mintforge"
	defaultLogDir               = "~/.local/share/mintforge/logs"
	defaultStorageBackend       = StorageBackendHTTP
	defaultRecordsBackend       = RecordsBackendHTTP
	defaultServiceTimeout       = 60
	defaultManifestEncoding     = "utf-8"
	defaultItemDelayMS          = 1000
	defaultWorkers              = 1
	defaultStageTimeoutSeconds  = 120
	defaultNotifyRequestTimeout = 10
	defaultNotifyMinItems       = 1
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Backend identifiers accepted by storage.backend and records.backend.
const (
	StorageBackendHTTP  = "http"
	StorageBackendS3    = "s3"
	RecordsBackendHTTP  = "http"
	RecordsBackendLocal = "sqlite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Storage: Storage{
			Backend:        defaultStorageBackend,
			TimeoutSeconds: defaultServiceTimeout,
			S3UseSSL:       true,
		},
		Ledger: Ledger{
			TimeoutSeconds: defaultServiceTimeout,
		},
		Records: Records{
			Backend:        defaultRecordsBackend,
			TimeoutSeconds: defaultServiceTimeout,
		},
		Manifest: Manifest{
			Encoding: defaultManifestEncoding,
		},
		Workflow: Workflow{
			ItemDelayMS:         defaultItemDelayMS,
			Workers:             defaultWorkers,
			StageTimeoutSeconds: defaultStageTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			BatchStarted:   true,
			BatchCompleted: true,
			Errors:         true,
			MinItems:       defaultNotifyMinItems,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
