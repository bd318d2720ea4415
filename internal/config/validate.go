package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// Validate ensures the configuration is structurally usable. Service
// endpoints are checked separately by ValidateServices because planning and
// template commands run without them.
func (c *Config) Validate() error {
	if err := c.validateBackends(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateServices ensures every external endpoint required for minting is configured.
func (c *Config) ValidateServices() error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	switch c.Storage.Backend {
	case StorageBackendHTTP:
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url is required. Edit %s (create with 'mintforge config init')", defaultPath)
		}
	case StorageBackendS3:
		if c.Storage.S3Endpoint == "" {
			return errors.New("storage.s3_endpoint must be set when storage.backend is \"s3\"")
		}
		if c.Storage.S3Bucket == "" {
			return errors.New("storage.s3_bucket must be set when storage.backend is \"s3\"")
		}
		if c.Storage.S3AccessKey == "" || c.Storage.S3SecretKey == "" {
			return errors.New("storage.s3_access_key and storage.s3_secret_key are required (or AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY)")
		}
	}
	if c.Ledger.URL == "" {
		return fmt.Errorf("ledger.url is required. Edit %s (create with 'mintforge config init')", defaultPath)
	}
	if c.Records.Backend == RecordsBackendHTTP && c.Records.URL == "" {
		return errors.New("records.url must be set when records.backend is \"http\"")
	}
	return nil
}

func (c *Config) validateBackends() error {
	switch c.Storage.Backend {
	case StorageBackendHTTP, StorageBackendS3:
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (expected http or s3)", c.Storage.Backend)
	}
	switch c.Records.Backend {
	case RecordsBackendHTTP, RecordsBackendLocal:
	default:
		return fmt.Errorf("records.backend: unsupported value %q (expected http or sqlite)", c.Records.Backend)
	}
	return nil
}

func (c *Config) validateManifest() error {
	if _, err := ianaindex.IANA.Encoding(c.Manifest.Encoding); err != nil {
		return fmt.Errorf("manifest.encoding: unsupported value %q", c.Manifest.Encoding)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.ItemDelayMS < 0 {
		return errors.New("workflow.item_delay_ms must be zero or positive")
	}
	if c.Workflow.RateLimitRPS < 0 {
		return errors.New("workflow.rate_limit_rps must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
