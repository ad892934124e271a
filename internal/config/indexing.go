package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// EnvIndexingMaxAttempts overrides the write retry attempt bound.
	EnvIndexingMaxAttempts = "INDEXING_MAX_ATTEMPTS"

	// EnvIndexingRetryBackoff overrides the initial retry backoff.
	EnvIndexingRetryBackoff = "INDEXING_RETRY_BACKOFF"
)

// IndexingConfig contains indexing pipeline configuration.
type IndexingConfig struct {
	// MaxAttempts bounds retries of the atomic index write when it fails
	// with a transient contention error.
	MaxAttempts int `toml:"max_attempts"`

	// RetryBackoff is the initial backoff between attempts; each subsequent
	// attempt doubles it.
	RetryBackoff string `toml:"retry_backoff"`
}

// RetryBackoffDuration parses and returns the retry backoff as a time.Duration.
func (c *IndexingConfig) RetryBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryBackoff)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the indexing configuration.
func (c *IndexingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *IndexingConfig) Merge(overlay *IndexingConfig) {
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.RetryBackoff != "" {
		c.RetryBackoff = overlay.RetryBackoff
	}
}

func (c *IndexingConfig) loadDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = "100ms"
	}
}

func (c *IndexingConfig) loadEnv() {
	if v := os.Getenv(EnvIndexingMaxAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAttempts = n
		}
	}
	if v := os.Getenv(EnvIndexingRetryBackoff); v != "" {
		c.RetryBackoff = v
	}
}

func (c *IndexingConfig) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive")
	}
	if _, err := time.ParseDuration(c.RetryBackoff); err != nil {
		return fmt.Errorf("invalid retry_backoff: %w", err)
	}
	return nil
}
