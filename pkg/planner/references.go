package planner

import (
	"errors"
	"fmt"

	"github.com/ethpandaops/cubeplan/pkg/dependencies"
	"github.com/ethpandaops/cubeplan/pkg/expression"
	"github.com/ethpandaops/cubeplan/pkg/report"
)

// ReferenceGraph builds the graph of references between a container's declared bindings.
// A binding reference loop is rejected with ErrBindingCycle.
func ReferenceGraph(container *report.Container) (*dependencies.BindingGraph, error) {
	nodes := make([]dependencies.Node, 0, len(container.Bindings))
	for i := range container.Bindings {
		column := &container.Bindings[i]
		nodes = append(nodes, dependencies.Node{
			Name:       column.Name,
			References: expression.BindingNames(column.Expression),
		})
	}

	graph := dependencies.NewBindingGraph()
	if err := graph.BuildGraph(nodes); err != nil {
		if errors.Is(err, dependencies.ErrReferenceCycle) {
			return nil, fmt.Errorf("%w: %w", ErrBindingCycle, err)
		}
		return nil, fmt.Errorf("invalid bindings: %w", err)
	}

	return graph, nil
}
