// Package planner translates a report container's bindings, series and filters into a cube query plan
package planner

import (
	"fmt"
	"time"

	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/observability"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/sirupsen/logrus"
)

// Mode selects how the plan will be executed
type Mode int

const (
	// ModeRender plans for a full report render, nested containers may use sub-plans
	ModeRender Mode = iota
	// ModeLivePreview plans a standalone preview: no sub-plans and no aggregate-on levels
	ModeLivePreview
)

func (m Mode) String() string {
	if m == ModeLivePreview {
		return "live-preview"
	}
	return "render"
}

// ParseMode parses a mode name as printed by String
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "render":
		return ModeRender, nil
	case "live-preview", "preview":
		return ModeLivePreview, nil
	default:
		return ModeRender, fmt.Errorf("unknown planning mode %q", s)
	}
}

// Planner builds query plans. It holds no per-plan state and may be shared.
type Planner struct {
	log   logrus.FieldLogger
	cubes cube.Resolver
	names NameAllocator
}

// Option configures a Planner
type Option func(*Planner)

// WithNameAllocator replaces the allocator used for generated binding names
func WithNameAllocator(names NameAllocator) Option {
	return func(p *Planner) {
		p.names = names
	}
}

// New creates a planner resolving cube catalogs through cubes
func New(log logrus.FieldLogger, cubes cube.Resolver, opts ...Option) *Planner {
	p := &Planner{
		log:   log.WithField("component", "planner"),
		cubes: cubes,
		names: DefaultNameAllocator{},
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// CreatePlan builds the query definition for a container: a sub-plan when the container is nested
// in a crosstab whose layout can anchor one, a full plan otherwise.
func (p *Planner) CreatePlan(container *report.Container, mode Mode) (def query.Definition, err error) {
	if container == nil {
		return nil, ErrNilContainer
	}

	start := time.Now()
	cubeName := BoundCube(container)

	defer func() {
		status := "success"
		kind := string(query.KindPlan)
		if err != nil {
			status = "failed"
			observability.RecordError("planner", errorType(err))
		} else {
			kind = string(def.Kind())
		}
		observability.RecordPlan(cubeName, kind, status, time.Since(start).Seconds())
	}()

	if cubeName == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCubeBinding, container.Name)
	}

	catalog, err := p.cubes.Get(cubeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingCubeBinding, container.Name, err)
	}

	log := p.log.WithFields(logrus.Fields{
		"container": container.Name,
		"cube":      cubeName,
		"mode":      mode.String(),
	})

	// Only containers without their own cube live inside a crosstab's query
	if container.Cube == "" && mode != ModeLivePreview {
		if sub := newSubPlan(container); sub != nil {
			log.WithFields(logrus.Fields{
				"row_anchor":    sub.StartingLevelOnRow,
				"column_anchor": sub.StartingLevelOnColumn,
			}).Debug("Using sub-plan of host crosstab")

			return sub, nil
		}
	}

	plan, err := newBuilder(log, catalog, container, mode, p.names).build()
	if err != nil {
		return nil, fmt.Errorf("failed to plan container %s: %w", container.Name, err)
	}

	log.WithFields(logrus.Fields{
		"plan_id":  plan.ID.String(),
		"bindings": len(plan.Bindings),
		"measures": len(plan.Measures),
		"filters":  len(plan.Filters),
		"sorts":    len(plan.Sorts),
	}).Debug("Built query plan")

	return plan, nil
}

// BoundCube returns the container's own cube, or the cube of the crosstab hosting it
func BoundCube(container *report.Container) string {
	if container.Cube != "" {
		return container.Cube
	}
	if container.Host != nil {
		return container.Host.Cube
	}

	return ""
}
