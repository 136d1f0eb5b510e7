package plancache

import (
	"context"

	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/observability"
	"github.com/ethpandaops/cubeplan/pkg/planner"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/sirupsen/logrus"
)

// Planner is the planning surface wrapped by CachingPlanner
type Planner interface {
	CreatePlan(container *report.Container, mode planner.Mode) (query.Definition, error)
}

// CachingPlanner consults the cache before planning and stores what it plans. Cache failures are
// logged and never fail a plan.
type CachingPlanner struct {
	log     logrus.FieldLogger
	planner Planner
	cache   *Cache
	cubes   cube.Resolver
}

// NewCachingPlanner wraps a planner with a cache. cubes must resolve the same catalogs the
// planner plans against.
func NewCachingPlanner(log logrus.FieldLogger, p Planner, cache *Cache, cubes cube.Resolver) *CachingPlanner {
	return &CachingPlanner{
		log:     log.WithField("component", "plancache"),
		planner: p,
		cache:   cache,
		cubes:   cubes,
	}
}

// CreatePlan returns the cached definition for the container or plans and caches it
func (c *CachingPlanner) CreatePlan(ctx context.Context, container *report.Container, mode planner.Mode) (query.Definition, error) {
	if container == nil {
		return c.planner.CreatePlan(nil, mode)
	}

	log := c.log.WithField("container", container.Name)

	// Unresolvable cubes are never cached; the planner reports them
	catalog, err := c.cubes.Get(planner.BoundCube(container))
	if err != nil {
		return c.planner.CreatePlan(container, mode)
	}

	key, err := c.cache.Key(container, catalog, mode)
	if err != nil {
		observability.RecordPlanCacheError()
		log.WithError(err).Warn("Failed to derive plan cache key")
		return c.planner.CreatePlan(container, mode)
	}

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		observability.RecordPlanCacheError()
		log.WithError(err).Warn("Failed to read plan cache")
	case cached != nil:
		observability.RecordPlanCacheHit()
		log.Debug("Plan cache hit")
		return cached, nil
	default:
		observability.RecordPlanCacheMiss()
	}

	def, err := c.planner.CreatePlan(container, mode)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, def); err != nil {
		observability.RecordPlanCacheError()
		log.WithError(err).Warn("Failed to write plan cache")
	}

	return def, nil
}
