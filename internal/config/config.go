package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Storage contains configuration for the asset-storage upload service.
type Storage struct {
	// Backend selects the uploader: "http" posts multipart uploads to URL,
	// "s3" writes objects to an S3-compatible bucket.
	Backend        string `toml:"backend"`
	URL            string `toml:"url"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	S3Endpoint    string `toml:"s3_endpoint"`
	S3Region      string `toml:"s3_region"`
	S3Bucket      string `toml:"s3_bucket"`
	S3Prefix      string `toml:"s3_prefix"`
	S3AccessKey   string `toml:"s3_access_key"`
	S3SecretKey   string `toml:"s3_secret_key"`
	S3UseSSL      bool   `toml:"s3_use_ssl"`
	PublicBaseURL string `toml:"public_base_url"`
}

// Ledger contains configuration for the ledger-mint service.
type Ledger struct {
	URL            string `toml:"url"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Records contains configuration for record persistence.
type Records struct {
	// Backend selects "http" (REST endpoint) or "sqlite" (local database in
	// paths.state_dir).
	Backend        string `toml:"backend"`
	URL            string `toml:"url"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Manifest contains manifest ingestion settings.
type Manifest struct {
	Encoding string `toml:"encoding"`
}

// Workflow contains batch pacing and concurrency settings.
type Workflow struct {
	ItemDelayMS         int     `toml:"item_delay_ms"`
	Workers             int     `toml:"workers"`
	RateLimitRPS        float64 `toml:"rate_limit_rps"`
	StageTimeoutSeconds int     `toml:"stage_timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	BatchStarted   bool   `toml:"batch_started"`
	BatchCompleted bool   `toml:"batch_completed"`
	Errors         bool   `toml:"errors"`
	MinItems       int    `toml:"min_items"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mintforge.
//
// Configuration sections by subsystem:
//   - Paths: state (lock files, local records) and log directories
//   - Storage: asset upload service (HTTP endpoint or S3 bucket)
//   - Ledger: mint service endpoint
//   - Records: record persistence (REST endpoint or local SQLite)
//   - Manifest: manifest decoding
//   - Workflow: inter-item delay, workers, rate limit, stage timeouts
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Storage       Storage       `toml:"storage"`
	Ledger        Ledger        `toml:"ledger"`
	Records       Records       `toml:"records"`
	Manifest      Manifest      `toml:"manifest"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := ExpandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mintforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RecordsDBPath returns the location of the local SQLite record store.
func (c *Config) RecordsDBPath() string {
	return filepath.Join(c.Paths.StateDir, "records.db")
}

// LockDir returns the directory holding per-collection mint locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// ItemDelay returns the pause inserted between consecutive items.
func (c *Config) ItemDelay() time.Duration {
	return time.Duration(c.Workflow.ItemDelayMS) * time.Millisecond
}

// StageTimeout returns the upper bound applied to each external call.
func (c *Config) StageTimeout() time.Duration {
	return time.Duration(c.Workflow.StageTimeoutSeconds) * time.Second
}

// ExpandPath resolves tilde prefixes and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
