// Package dependencies manages the reference graph between report bindings
package dependencies

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/heimdalr/dag"
)

var (
	// ErrDuplicateBinding is returned when two nodes share a binding name
	ErrDuplicateBinding = errors.New("binding declared more than once")
	// ErrReferenceCycle is returned when bindings reference each other in a loop
	ErrReferenceCycle = errors.New("binding reference cycle")
)

// Node is a binding and the bindings its expression references
type Node struct {
	Name       string
	References []string
}

// BindingGraph manages the reference graph of a container's bindings
type BindingGraph struct {
	dag   *dag.DAG
	nodes map[string]Node
	mutex sync.RWMutex
}

// NewBindingGraph creates a new, empty binding graph
func NewBindingGraph() *BindingGraph {
	return &BindingGraph{
		dag:   dag.NewDAG(),
		nodes: make(map[string]Node),
	}
}

// BuildGraph builds the graph from binding nodes. References to bindings that are not declared
// are left out of the graph; the planner generates a binding for them when they are resolved.
func (g *BindingGraph) BuildGraph(nodes []Node) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.dag = dag.NewDAG()
	g.nodes = make(map[string]Node, len(nodes))

	for i := range nodes {
		node := nodes[i]
		if _, exists := g.nodes[node.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateBinding, node.Name)
		}
		g.nodes[node.Name] = node

		if err := g.dag.AddVertexByID(node.Name, node.Name); err != nil {
			return fmt.Errorf("failed to add vertex %s: %w", node.Name, err)
		}
	}

	// Edges run referenced → referrer
	for i := range nodes {
		node := &nodes[i]
		seen := make(map[string]bool, len(node.References))

		for _, ref := range node.References {
			if seen[ref] {
				continue
			}
			seen[ref] = true

			if _, exists := g.nodes[ref]; !exists {
				continue
			}

			if ref == node.Name || g.reaches(node.Name, ref) {
				return fmt.Errorf("%w: %s → %s", ErrReferenceCycle, ref, node.Name)
			}

			if err := g.dag.AddEdge(ref, node.Name); err != nil {
				return fmt.Errorf("failed to add edge %s → %s: %w", ref, node.Name, err)
			}
		}
	}

	return nil
}

// GetDependencies returns the bindings a binding directly references
func (g *BindingGraph) GetDependencies(name string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	parents, err := g.dag.GetParents(name)
	if err != nil {
		return nil
	}

	return sortedKeys(parents)
}

// GetAllDependencies returns every binding reachable through references
func (g *BindingGraph) GetAllDependencies(name string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	ancestors, err := g.dag.GetAncestors(name)
	if err != nil {
		return nil
	}

	return sortedKeys(ancestors)
}

// GetDependents returns the bindings that directly reference a binding
func (g *BindingGraph) GetDependents(name string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	children, err := g.dag.GetChildren(name)
	if err != nil {
		return nil
	}

	return sortedKeys(children)
}

// reaches reports whether to already depends on from through any chain of references.
// Callers hold the lock.
func (g *BindingGraph) reaches(from, to string) bool {
	descendants, err := g.dag.GetDescendants(from)
	if err != nil {
		return false
	}

	_, exists := descendants[to]
	return exists
}

// Names returns every binding name in the graph
func (g *BindingGraph) Names() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}

	sort.Strings(names) // Ensure consistent ordering
	return names
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
