package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeLedger()
	c.normalizeRecords()
	c.normalizeManifest()
	c.normalizeWorkflow()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = ExpandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	c.Storage.URL = trimBaseURL(c.Storage.URL)
	c.Storage.APIToken = envOverride(c.Storage.APIToken, "MINTFORGE_STORAGE_TOKEN")
	if c.Storage.TimeoutSeconds <= 0 {
		c.Storage.TimeoutSeconds = defaultServiceTimeout
	}
	c.Storage.S3Endpoint = strings.TrimSpace(c.Storage.S3Endpoint)
	c.Storage.S3Region = strings.TrimSpace(c.Storage.S3Region)
	c.Storage.S3Bucket = strings.TrimSpace(c.Storage.S3Bucket)
	c.Storage.S3Prefix = strings.Trim(strings.TrimSpace(c.Storage.S3Prefix), "/")
	c.Storage.S3AccessKey = envOverride(c.Storage.S3AccessKey, "AWS_ACCESS_KEY_ID")
	c.Storage.S3SecretKey = envOverride(c.Storage.S3SecretKey, "AWS_SECRET_ACCESS_KEY")
	c.Storage.PublicBaseURL = trimBaseURL(c.Storage.PublicBaseURL)
}

func (c *Config) normalizeLedger() {
	c.Ledger.URL = trimBaseURL(c.Ledger.URL)
	c.Ledger.APIToken = envOverride(c.Ledger.APIToken, "MINTFORGE_LEDGER_TOKEN")
	if c.Ledger.TimeoutSeconds <= 0 {
		c.Ledger.TimeoutSeconds = defaultServiceTimeout
	}
}

func (c *Config) normalizeRecords() {
	c.Records.Backend = strings.ToLower(strings.TrimSpace(c.Records.Backend))
	if c.Records.Backend == "" {
		c.Records.Backend = defaultRecordsBackend
	}
	c.Records.URL = trimBaseURL(c.Records.URL)
	c.Records.APIToken = envOverride(c.Records.APIToken, "MINTFORGE_RECORDS_TOKEN")
	if c.Records.TimeoutSeconds <= 0 {
		c.Records.TimeoutSeconds = defaultServiceTimeout
	}
}

func (c *Config) normalizeManifest() {
	c.Manifest.Encoding = strings.ToLower(strings.TrimSpace(c.Manifest.Encoding))
	if c.Manifest.Encoding == "" {
		c.Manifest.Encoding = defaultManifestEncoding
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Workers <= 0 {
		c.Workflow.Workers = defaultWorkers
	}
	if c.Workflow.StageTimeoutSeconds <= 0 {
		c.Workflow.StageTimeoutSeconds = defaultStageTimeoutSeconds
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Notifications.MinItems <= 0 {
		c.Notifications.MinItems = defaultNotifyMinItems
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}

func trimBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

// envOverride prefers a non-empty environment variable over the file value.
func envOverride(value, key string) string {
	if env, ok := os.LookupEnv(key); ok && strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}
	return strings.TrimSpace(value)
}
