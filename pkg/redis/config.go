// Package redis provides Redis client configuration
package redis

import (
	"errors"
	"fmt"
	"time"
)

// Define static errors
var (
	ErrURLRequired = errors.New("redis url is required")
	ErrInvalidTTL  = errors.New("redis ttl must be positive")
)

// Config holds Redis client configuration
type Config struct {
	URL    string        `yaml:"url"`
	Prefix string        `yaml:"prefix" default:"cubeplan"`
	TTL    time.Duration `yaml:"ttl" default:"10m"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrURLRequired
	}

	if c.TTL <= 0 {
		return ErrInvalidTTL
	}

	if c.Prefix == "" {
		c.Prefix = "cubeplan"
	}

	return nil
}

// Enabled reports whether a Redis URL has been configured
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// PrefixKey adds the configured prefix to a Redis key
func (c *Config) PrefixKey(key string) string {
	if c.Prefix == "" {
		return key
	}

	return fmt.Sprintf("%s:%s", c.Prefix, key)
}
