package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// EnvSearchMaxQueryLength overrides the maximum accepted query length.
	EnvSearchMaxQueryLength = "SEARCH_MAX_QUERY_LENGTH"

	// EnvSearchMaxLimit overrides the maximum result page size.
	EnvSearchMaxLimit = "SEARCH_MAX_LIMIT"

	// EnvSearchSnippetLength overrides the snippet window length.
	EnvSearchSnippetLength = "SEARCH_SNIPPET_LENGTH"
)

// SearchConfig contains query engine configuration.
type SearchConfig struct {
	MaxQueryLength int `toml:"max_query_length"`
	MaxLimit       int `toml:"max_limit"`
	DefaultLimit   int `toml:"default_limit"`
	SnippetLength  int `toml:"snippet_length"`
}

// Finalize applies defaults, loads environment overrides, and validates the search configuration.
func (c *SearchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *SearchConfig) Merge(overlay *SearchConfig) {
	if overlay.MaxQueryLength != 0 {
		c.MaxQueryLength = overlay.MaxQueryLength
	}
	if overlay.MaxLimit != 0 {
		c.MaxLimit = overlay.MaxLimit
	}
	if overlay.DefaultLimit != 0 {
		c.DefaultLimit = overlay.DefaultLimit
	}
	if overlay.SnippetLength != 0 {
		c.SnippetLength = overlay.SnippetLength
	}
}

func (c *SearchConfig) loadDefaults() {
	if c.MaxQueryLength == 0 {
		c.MaxQueryLength = 500
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = 50
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = 10
	}
	if c.SnippetLength == 0 {
		c.SnippetLength = 240
	}
}

func (c *SearchConfig) loadEnv() {
	if v := os.Getenv(EnvSearchMaxQueryLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxQueryLength = n
		}
	}
	if v := os.Getenv(EnvSearchMaxLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxLimit = n
		}
	}
	if v := os.Getenv(EnvSearchSnippetLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SnippetLength = n
		}
	}
}

func (c *SearchConfig) validate() error {
	if c.MaxQueryLength < 2 {
		return fmt.Errorf("max_query_length must be at least 2")
	}
	if c.MaxLimit < 1 {
		return fmt.Errorf("max_limit must be positive")
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default_limit must be between 1 and max_limit")
	}
	if c.SnippetLength < 40 {
		return fmt.Errorf("snippet_length too small")
	}
	return nil
}
