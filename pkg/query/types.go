package query

import "slices"

// Binding is a named, typed value computed from an expression
type Binding struct {
	Name              string   `json:"name"`
	DataType          DataType `json:"dataType"`
	Expression        string   `json:"expression"`
	AggregateFunction string   `json:"aggregateFunction,omitempty"`
	AggregateOn       []string `json:"aggregateOn,omitempty"`
}

// AddAggregateOn appends a level expression the binding aggregates on, ignoring repeats
func (b *Binding) AddAggregateOn(levelExpr string) {
	if slices.Contains(b.AggregateOn, levelExpr) {
		return
	}
	b.AggregateOn = append(b.AggregateOn, levelExpr)
}

// Measure is a cube fact aggregated by the plan
type Measure struct {
	Name              string `json:"name"`
	AggregateFunction string `json:"aggregateFunction,omitempty"`
}

// Edge is the row or column axis of a plan
type Edge struct {
	Type       EdgeType     `json:"type"`
	Dimensions []*Dimension `json:"dimensions"`
}

// CreateDimension adds a dimension with its hierarchy to the edge
func (e *Edge) CreateDimension(name, hierarchy string) *Dimension {
	d := &Dimension{Name: name}
	d.Hierarchy = &Hierarchy{Name: hierarchy, dimension: d}
	e.Dimensions = append(e.Dimensions, d)

	return d
}

// Dimension is a cube dimension grouped on an edge
type Dimension struct {
	Name      string     `json:"name"`
	Hierarchy *Hierarchy `json:"hierarchy"`
}

// Hierarchy holds the grouped levels of a dimension, root first
type Hierarchy struct {
	Name   string   `json:"name"`
	Levels []*Level `json:"levels"`

	dimension *Dimension
}

// Dimension returns the owning dimension
func (h *Hierarchy) Dimension() *Dimension {
	return h.dimension
}

// Level returns the named level or nil
func (h *Hierarchy) Level(name string) *Level {
	for _, l := range h.Levels {
		if l.Name == name {
			return l
		}
	}

	return nil
}

// CreateLevel appends a level; an existing level of the same name is returned instead
func (h *Hierarchy) CreateLevel(name string) *Level {
	if l := h.Level(name); l != nil {
		return l
	}

	l := &Level{Name: name, hierarchy: h}
	h.Levels = append(h.Levels, l)

	return l
}

// Reorder sorts the levels by the depth function, keeping ties in their current order. A depth
// function that gives unknown levels depth 0 sorts them to the head, in insertion order among
// themselves and the root level.
func (h *Hierarchy) Reorder(depth func(level string) int) {
	slices.SortStableFunc(h.Levels, func(a, b *Level) int {
		return depth(a.Name) - depth(b.Name)
	})
}

// Level is one grouping level of a hierarchy
type Level struct {
	Name string `json:"name"`

	hierarchy *Hierarchy
}

// Hierarchy returns the owning hierarchy
func (l *Level) Hierarchy() *Hierarchy {
	return l.hierarchy
}

// Ref returns the dimension/level reference of the level
func (l *Level) Ref() LevelRef {
	ref := LevelRef{Level: l.Name}
	if l.hierarchy != nil && l.hierarchy.dimension != nil {
		ref.Dimension = l.hierarchy.dimension.Name
	}

	return ref
}

// LevelRef identifies a level by dimension and level name
type LevelRef struct {
	Dimension string `json:"dimension"`
	Level     string `json:"level"`
}

// IsZero reports whether the reference is empty
func (r LevelRef) IsZero() bool {
	return r.Dimension == "" && r.Level == ""
}

func (r LevelRef) String() string {
	return r.Dimension + "/" + r.Level
}

// Filter restricts the plan to qualifying members
type Filter struct {
	Expression    string     `json:"expression"`
	Operator      Operator   `json:"operator"`
	Values        []any      `json:"values,omitempty"`
	Target        LevelRef   `json:"target"`
	QualifyLevels []LevelRef `json:"qualifyLevels,omitempty"`
	QualifyValues []any      `json:"qualifyValues,omitempty"`
}

// Sort orders a level, directly or by an aggregated binding
type Sort struct {
	Expression string        `json:"expression"`
	Target     LevelRef      `json:"target"`
	Direction  SortDirection `json:"direction"`
}
