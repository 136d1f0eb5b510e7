package planner

import (
	"fmt"

	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/expression"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/sirupsen/logrus"
)

// subPlanName is the query name of every sub-plan
const subPlanName = "chart_subquery"

// builder owns the registries of one CreatePlan call
type builder struct {
	log       logrus.FieldLogger
	catalog   *cube.Catalog
	container *report.Container
	mode      Mode
	names     NameAllocator
	plan      *query.Plan

	bindings     map[string]*query.Binding // by binding name
	byExpression map[string]*query.Binding // generated bindings by their expression
	queries      map[string]string         // binding name → raw expression
	measures     map[string]*query.Measure // by binding name
	measureOrder []string
	levels       map[string]*query.Level // by binding name
	edges        edgeAssigner
}

func newBuilder(log logrus.FieldLogger, catalog *cube.Catalog, container *report.Container, mode Mode, names NameAllocator) *builder {
	return &builder{
		log:          log,
		catalog:      catalog,
		container:    container,
		mode:         mode,
		names:        names,
		plan:         query.NewPlan(container.Name, catalog.Name),
		bindings:     make(map[string]*query.Binding),
		byExpression: make(map[string]*query.Binding),
		queries:      make(map[string]string),
		measures:     make(map[string]*query.Measure),
		levels:       make(map[string]*query.Level),
	}
}

func (b *builder) build() (*query.Plan, error) {
	if err := b.registerBindings(); err != nil {
		return nil, err
	}

	series := b.container.Chart.Series
	for i := range series {
		sd := &series[i]
		for _, data := range sd.Data {
			if _, err := b.bindExpression(data); err != nil {
				return nil, fmt.Errorf("series %d: %w", i, err)
			}
		}

		if _, err := b.bindExpression(sd.Grouping); err != nil {
			return nil, fmt.Errorf("series %d grouping: %w", i, err)
		}
	}

	b.injectDemandedAggregation()

	// Sort keys reference levels and measures, so every series must be bound first
	for i := range series {
		if err := b.injectSorting(&series[i], i); err != nil {
			return nil, fmt.Errorf("series %d sorting: %w", i, err)
		}
	}

	b.injectFilters()

	return b.plan, nil
}

// registerBindings turns every declared computed column into a binding. Bindings are added to the
// plan only once an expression uses them.
func (b *builder) registerBindings() error {
	if _, err := ReferenceGraph(b.container); err != nil {
		return err
	}

	for i := range b.container.Bindings {
		column := &b.container.Bindings[i]

		binding := &query.Binding{
			Name:              column.Name,
			DataType:          adaptDataType(column.DataType),
			Expression:        column.Expression,
			AggregateFunction: adaptAggregation(column.AggregateFunction),
		}

		// Live preview never runs inside a crosstab query, so there is nothing to aggregate on
		if b.mode != ModeLivePreview {
			for _, fullName := range column.AggregateOn {
				dimension, level, err := expression.SplitLevelName(fullName)
				if err != nil {
					return fmt.Errorf("binding %s: %w", column.Name, err)
				}
				binding.AddAggregateOn(expression.Dimension(dimension, level))
			}
		}

		b.bindings[column.Name] = binding
		b.queries[column.Name] = column.Expression
	}

	return nil
}

// injectDemandedAggregation aggregates every measure binding without aggregate-on levels on all
// levels of the plan, so measures never aggregate below the rendered grouping
func (b *builder) injectDemandedAggregation() {
	levels := b.plan.Levels()
	if len(levels) == 0 {
		return
	}

	for _, name := range b.measureOrder {
		binding := b.bindings[name]
		if binding == nil || len(binding.AggregateOn) > 0 {
			continue
		}

		for _, level := range levels {
			ref := level.Ref()
			binding.AddAggregateOn(expression.Dimension(ref.Dimension, ref.Level))
		}

		b.log.WithFields(logrus.Fields{
			"binding":      name,
			"aggregate_on": binding.AggregateOn,
		}).Debug("Added demanded aggregation")
	}
}

// edgeAssigner places dimensions on edges: the first dimension seen owns the row edge, the second
// the column edge
type edgeAssigner struct {
	row    string
	column string
}

func (a *edgeAssigner) assign(dimension string) (query.EdgeType, error) {
	switch {
	case a.row == "" || a.row == dimension:
		a.row = dimension
		return query.EdgeRow, nil
	case a.column == "" || a.column == dimension:
		a.column = dimension
		return query.EdgeColumn, nil
	default:
		return query.EdgeRow, fmt.Errorf("%w: %s (row edge %s, column edge %s)",
			ErrTooManyDimensions, dimension, a.row, a.column)
	}
}
