// Package query defines cube query plans produced by the planner and consumed by the cube engine
package query

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEdgeExists is returned when creating a second edge of the same type
	ErrEdgeExists = errors.New("edge already exists")
	// ErrDuplicateBinding is returned when a different binding with the same name is added
	ErrDuplicateBinding = errors.New("duplicate binding name")
)

// Kind distinguishes full plans from sub-plans
type Kind string

const (
	// KindPlan is a full cube query plan
	KindPlan Kind = "plan"
	// KindSubPlan is a plan restricted to a region of an enclosing crosstab query
	KindSubPlan Kind = "subplan"
)

// Definition is either a full *Plan or a *SubPlan
type Definition interface {
	QueryName() string
	Kind() Kind
}

// EdgeType identifies the row or column edge
type EdgeType int

const (
	// EdgeRow is the row edge
	EdgeRow EdgeType = iota
	// EdgeColumn is the column edge
	EdgeColumn
)

func (e EdgeType) String() string {
	if e == EdgeColumn {
		return "column"
	}
	return "row"
}

// Plan is a full cube query: bindings, edges, measures, filters and sorts
type Plan struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Cube     string     `json:"cube"`
	Bindings []*Binding `json:"bindings,omitempty"`
	Measures []*Measure `json:"measures,omitempty"`
	Edges    [2]*Edge   `json:"edges"`
	Filters  []*Filter  `json:"filters,omitempty"`
	Sorts    []*Sort    `json:"sorts,omitempty"`
}

// NewPlan creates an empty plan for the cube
func NewPlan(name, cube string) *Plan {
	return &Plan{
		ID:   uuid.New(),
		Name: name,
		Cube: cube,
	}
}

// QueryName implements Definition
func (p *Plan) QueryName() string { return p.Name }

// Kind implements Definition
func (p *Plan) Kind() Kind { return KindPlan }

// Binding returns the named binding if it has been added
func (p *Plan) Binding(name string) *Binding {
	for _, b := range p.Bindings {
		if b.Name == name {
			return b
		}
	}

	return nil
}

// HasBinding reports whether this exact binding has been added
func (p *Plan) HasBinding(b *Binding) bool {
	for _, existing := range p.Bindings {
		if existing == b {
			return true
		}
	}

	return false
}

// AddBinding adds a binding once. Adding the same binding again is a no-op; adding a different
// binding under an existing name is an error.
func (p *Plan) AddBinding(b *Binding) error {
	if existing := p.Binding(b.Name); existing != nil {
		if existing == b {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateBinding, b.Name)
	}

	p.Bindings = append(p.Bindings, b)

	return nil
}

// Measure returns the named measure definition
func (p *Plan) Measure(name string) *Measure {
	for _, m := range p.Measures {
		if m.Name == name {
			return m
		}
	}

	return nil
}

// CreateMeasure returns the named measure definition, creating it when absent
func (p *Plan) CreateMeasure(name string) *Measure {
	if m := p.Measure(name); m != nil {
		return m
	}

	m := &Measure{Name: name}
	p.Measures = append(p.Measures, m)

	return m
}

// Edge returns the edge of the given type or nil
func (p *Plan) Edge(t EdgeType) *Edge {
	return p.Edges[t]
}

// CreateEdge creates the edge of the given type
func (p *Plan) CreateEdge(t EdgeType) (*Edge, error) {
	if p.Edges[t] != nil {
		return nil, fmt.Errorf("%w: %s", ErrEdgeExists, t)
	}

	e := &Edge{Type: t}
	p.Edges[t] = e

	return e, nil
}

// Level finds a level definition on any edge
func (p *Plan) Level(ref LevelRef) *Level {
	for _, e := range p.Edges {
		if e == nil {
			continue
		}
		for _, d := range e.Dimensions {
			if d.Name != ref.Dimension || d.Hierarchy == nil {
				continue
			}
			if l := d.Hierarchy.Level(ref.Level); l != nil {
				return l
			}
		}
	}

	return nil
}

// Levels returns every level of the plan: row edge levels then column edge levels, each in
// hierarchy order
func (p *Plan) Levels() []*Level {
	var levels []*Level
	for _, e := range p.Edges {
		if e == nil {
			continue
		}
		for _, d := range e.Dimensions {
			if d.Hierarchy != nil {
				levels = append(levels, d.Hierarchy.Levels...)
			}
		}
	}

	return levels
}

// AddFilter appends a filter
func (p *Plan) AddFilter(f *Filter) {
	p.Filters = append(p.Filters, f)
}

// AddSort appends a sort
func (p *Plan) AddSort(s *Sort) {
	p.Sorts = append(p.Sorts, s)
}

// relink restores level back-references after decoding
func (p *Plan) relink() {
	for _, e := range p.Edges {
		if e == nil {
			continue
		}
		for _, d := range e.Dimensions {
			if d.Hierarchy == nil {
				continue
			}
			d.Hierarchy.dimension = d
			for _, l := range d.Hierarchy.Levels {
				l.hierarchy = d.Hierarchy
			}
		}
	}
}

// SubPlan restricts the enclosing crosstab query to the region starting at the given levels
type SubPlan struct {
	Name                  string `json:"name"`
	StartingLevelOnRow    string `json:"startingLevelOnRow,omitempty"`
	StartingLevelOnColumn string `json:"startingLevelOnColumn,omitempty"`
}

// QueryName implements Definition
func (s *SubPlan) QueryName() string { return s.Name }

// Kind implements Definition
func (s *SubPlan) Kind() Kind { return KindSubPlan }

var (
	_ Definition = (*Plan)(nil)
	_ Definition = (*SubPlan)(nil)
)
