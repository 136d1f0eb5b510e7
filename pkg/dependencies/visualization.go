package dependencies

import (
	"sort"
)

// GraphInfo groups bindings by reference depth
type GraphInfo struct {
	Levels        map[int][]string
	MaxLevel      int
	RootNodes     []string
	TotalBindings int
}

// GetGraphInfo returns the bindings grouped by how many references deep they sit
func (g *BindingGraph) GetGraphInfo() *GraphInfo {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	levels := g.calculateLevels()

	levelGroups := make(map[int][]string)
	maxLevel := 0
	for name, level := range levels {
		if level > maxLevel {
			maxLevel = level
		}
		levelGroups[level] = append(levelGroups[level], name)
	}

	for level := range levelGroups {
		sort.Strings(levelGroups[level])
	}

	return &GraphInfo{
		Levels:        levelGroups,
		MaxLevel:      maxLevel,
		RootNodes:     g.findRootNodes(),
		TotalBindings: len(g.nodes),
	}
}

// calculateLevels assigns each binding one more than the deepest binding it references
func (g *BindingGraph) calculateLevels() map[string]int {
	levels := make(map[string]int, len(g.nodes))
	for name := range g.nodes {
		levels[name] = 0
	}

	// Keep updating levels until stable; the graph is acyclic so this terminates
	changed := true
	for changed {
		changed = false
		for name, node := range g.nodes {
			maxRefLevel := -1
			for _, ref := range node.References {
				if refLevel, exists := levels[ref]; exists && ref != name && refLevel > maxRefLevel {
					maxRefLevel = refLevel
				}
			}

			if maxRefLevel >= 0 && maxRefLevel+1 > levels[name] {
				levels[name] = maxRefLevel + 1
				changed = true
			}
		}
	}

	return levels
}

// findRootNodes finds all bindings that reference no declared binding
func (g *BindingGraph) findRootNodes() []string {
	roots := []string{}
	for name, node := range g.nodes {
		declared := false
		for _, ref := range node.References {
			if _, exists := g.nodes[ref]; exists {
				declared = true
				break
			}
		}
		if !declared {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	return roots
}
