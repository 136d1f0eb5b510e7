package planner

import (
	"fmt"
	"strings"

	"github.com/ethpandaops/cubeplan/pkg/expression"
	"github.com/ethpandaops/cubeplan/pkg/observability"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/sirupsen/logrus"
)

// bindExpression resolves a series expression into plan bindings, measures and levels. It
// returns the binding the expression itself resolved to, nil for an empty expression.
func (b *builder) bindExpression(expr string) (*query.Binding, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	var first *query.Binding

	visited := make(map[string]bool)
	for expr != "" {
		binding, next, err := b.bindStep(expr, visited)
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = binding
		}
		expr = next
	}

	return first, nil
}

// bindStep resolves one binding of a reference chain and returns the expression of the next
// binding in the chain, or "" when the chain ends
func (b *builder) bindStep(expr string, visited map[string]bool) (*query.Binding, string, error) {
	var (
		binding    *query.Binding
		undeclared bool
	)

	if name := expression.BindingName(expr, true); name != "" {
		// data["x"] * 2 resolves as data["x"]
		binding = b.bindings[name]
		if binding == nil {
			undeclared = true
			binding = b.lookup(expression.Data(name))
			if binding == nil {
				binding = b.registerGenerated(expression.Data(name))
			}
		}
	} else {
		binding = b.lookup(expr)
		if binding == nil {
			binding = b.registerGenerated(expr)
		}
	}

	name := binding.Name
	if visited[name] {
		return nil, "", fmt.Errorf("%w: %s", ErrBindingCycle, name)
	}
	visited[name] = true

	if err := b.plan.AddBinding(binding); err != nil {
		return nil, "", err
	}

	// An undeclared reference stays queryable but has nothing further to resolve
	if undeclared {
		b.log.WithField("binding", name).Debug("Reference to undeclared binding")
		observability.RecordBindingResolved(b.catalog.Name, "other")

		return binding, "", nil
	}

	raw := b.queries[name]
	if next := expression.BindingName(raw, true); next != "" {
		return binding, expression.Data(next), nil
	}

	if measure := expression.MeasureName(raw); measure != "" {
		return binding, "", b.bindMeasure(name, measure)
	}

	if dimension, level, ok := expression.LevelNames(raw); ok {
		return binding, "", b.bindLevel(name, dimension, level)
	}

	b.log.WithField("binding", name).Debug("Binding is neither a measure nor a level")
	observability.RecordBindingResolved(b.catalog.Name, "other")

	return binding, "", nil
}

// lookup finds a binding by name or, for generated bindings, by expression text
func (b *builder) lookup(expr string) *query.Binding {
	if binding, ok := b.bindings[expr]; ok {
		return binding
	}

	return b.byExpression[expr]
}

// registerGenerated registers an untyped binding for an expression no declared binding covers
func (b *builder) registerGenerated(expr string) *query.Binding {
	name := b.names.Allocate(expr, func(candidate string) bool {
		_, declared := b.bindings[candidate]
		return declared || b.plan.Binding(candidate) != nil
	})

	binding := &query.Binding{
		Name:       name,
		DataType:   query.DataTypeAny,
		Expression: expr,
	}

	b.bindings[name] = binding
	b.byExpression[expr] = binding
	b.queries[name] = expr

	b.log.WithFields(logrus.Fields{
		"binding":    name,
		"expression": expr,
	}).Debug("Generated binding for expression")

	return binding
}

func (b *builder) bindMeasure(bindingName, measureName string) error {
	if _, ok := b.measures[bindingName]; ok {
		return nil
	}

	measure, err := b.catalog.Measure(measureName)
	if err != nil {
		return fmt.Errorf("%w: binding %s: %w", ErrUnresolvableMeasure, bindingName, err)
	}

	def := b.plan.CreateMeasure(measure.Name)
	def.AggregateFunction = adaptAggregation(measure.Function)

	b.measures[bindingName] = def
	b.measureOrder = append(b.measureOrder, bindingName)

	b.log.WithFields(logrus.Fields{
		"binding":   bindingName,
		"measure":   measure.Name,
		"aggregate": def.AggregateFunction,
	}).Debug("Bound measure")
	observability.RecordBindingResolved(b.catalog.Name, "measure")

	return nil
}

func (b *builder) bindLevel(bindingName, dimensionName, levelName string) error {
	if _, ok := b.levels[bindingName]; ok {
		return nil
	}

	dimension, err := b.catalog.Dimension(dimensionName)
	if err != nil {
		return fmt.Errorf("%w: binding %s: %w", ErrUnresolvableLevelReference, bindingName, err)
	}

	hierarchy, err := dimension.Hierarchy()
	if err != nil {
		return fmt.Errorf("%w: binding %s: %w", ErrUnresolvableLevelReference, bindingName, err)
	}

	if _, err = hierarchy.LevelIndex(levelName); err != nil {
		return fmt.Errorf("%w: binding %s: %w", ErrUnresolvableLevelReference, bindingName, err)
	}

	edgeType, err := b.edges.assign(dimension.Name)
	if err != nil {
		return fmt.Errorf("binding %s: %w", bindingName, err)
	}

	edge := b.plan.Edge(edgeType)
	if edge == nil {
		if edge, err = b.plan.CreateEdge(edgeType); err != nil {
			return err
		}
		edge.CreateDimension(dimension.Name, hierarchy.Name)
	}

	levels := edge.Dimensions[0].Hierarchy
	def := levels.CreateLevel(levelName)

	// Levels may be referenced in any order; keep them root to leaf
	if len(levels.Levels) > 1 {
		levels.Reorder(func(name string) int {
			depth, _ := hierarchy.LevelIndex(name)
			return depth
		})
	}

	b.levels[bindingName] = def

	b.log.WithFields(logrus.Fields{
		"binding": bindingName,
		"level":   def.Ref().String(),
		"edge":    edgeType.String(),
	}).Debug("Bound level")
	observability.RecordBindingResolved(b.catalog.Name, "level")

	return nil
}

// resolveName returns the binding an expression ends at once binding references are followed
func (b *builder) resolveName(expr string) string {
	name := expression.BindingName(expr, true)
	if name == "" {
		binding := b.lookup(strings.TrimSpace(expr))
		if binding == nil {
			return ""
		}
		name = binding.Name
	}

	seen := map[string]bool{}
	for !seen[name] {
		seen[name] = true

		next := expression.BindingName(b.queries[name], true)
		if _, ok := b.bindings[next]; !ok {
			break
		}
		name = next
	}

	return name
}
