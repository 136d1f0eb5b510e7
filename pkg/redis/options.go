// Package redis provides Redis client utilities
package redis

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClient validates the configuration and creates a client from its URL
func NewClient(cfg *Config) (*redis.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return redis.NewClient(opt), nil
}
