// Package plancache caches compiled query definitions in Redis
package plancache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/planner"
	"github.com/ethpandaops/cubeplan/pkg/query"
	r "github.com/ethpandaops/cubeplan/pkg/redis"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Cache stores compiled definitions keyed by the container they were planned from
type Cache struct {
	log    logrus.FieldLogger
	client *redis.Client
	cfg    *r.Config
}

// New creates a plan cache on an existing client
func New(log logrus.FieldLogger, client *redis.Client, cfg *r.Config) *Cache {
	return &Cache{
		log:    log.WithField("component", "plancache"),
		client: client,
		cfg:    cfg,
	}
}

// Key derives the cache key of a container planned in the given mode against a catalog. The host
// crosstab is part of the key since nested containers plan against it, and the catalog since
// aggregate functions and level order come from it.
func (c *Cache) Key(container *report.Container, catalog *cube.Catalog, mode planner.Mode) (string, error) {
	h := sha256.New()

	doc, err := yaml.Marshal(container)
	if err != nil {
		return "", fmt.Errorf("failed to encode container %s: %w", container.Name, err)
	}
	h.Write(doc)

	if container.Host != nil {
		host, err := yaml.Marshal(container.Host)
		if err != nil {
			return "", fmt.Errorf("failed to encode host of %s: %w", container.Name, err)
		}
		h.Write(host)
	}

	if catalog != nil {
		cat, err := yaml.Marshal(catalog)
		if err != nil {
			return "", fmt.Errorf("failed to encode cube %s: %w", catalog.Name, err)
		}
		h.Write(cat)
	}

	h.Write([]byte(mode.String()))

	return c.cfg.PrefixKey("plan:" + hex.EncodeToString(h.Sum(nil))), nil
}

// Get returns the cached definition, or nil on a miss. Entries that no longer decode count as a
// miss and are removed.
func (c *Cache) Get(ctx context.Context, key string) (query.Definition, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	def, err := query.Unmarshal(data)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Dropping undecodable cached plan")
		_ = c.client.Del(ctx, key)
		return nil, nil
	}

	return def, nil
}

// Set stores a definition for the configured TTL
func (c *Cache) Set(ctx context.Context, key string, def query.Definition) error {
	data, err := query.Marshal(def)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.cfg.TTL).Err()
}

// Invalidate removes a cached definition
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// TTL returns the remaining lifetime of a cached definition
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.client.TTL(ctx, key).Result()
}
