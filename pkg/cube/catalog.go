// Package cube describes cube catalogs: dimensions, hierarchies, levels and measures
package cube

import (
	"errors"
	"fmt"
)

var (
	// ErrCubeNotFound is returned when a cube name is not known to the repository
	ErrCubeNotFound = errors.New("cube not found")
	// ErrDimensionNotFound is returned when a dimension is not part of the cube
	ErrDimensionNotFound = errors.New("dimension not found")
	// ErrHierarchyNotFound is returned when a dimension has no usable hierarchy
	ErrHierarchyNotFound = errors.New("hierarchy not found")
	// ErrLevelNotFound is returned when a level is not part of a hierarchy
	ErrLevelNotFound = errors.New("level not found")
	// ErrMeasureNotFound is returned when a measure is not part of the cube
	ErrMeasureNotFound = errors.New("measure not found")
	// ErrNameRequired is returned when a catalog element has no name
	ErrNameRequired = errors.New("name is required")
	// ErrDuplicateName is returned when two catalog elements share a name
	ErrDuplicateName = errors.New("duplicate name")
)

// Catalog is the dimension and measure metadata of one cube
type Catalog struct {
	Name       string      `yaml:"name" validate:"required"`
	Dimensions []Dimension `yaml:"dimensions"`
	Measures   []Measure   `yaml:"measures"`
}

// Dimension is a cube dimension with one or more hierarchies
type Dimension struct {
	Name             string      `yaml:"name" validate:"required"`
	DefaultHierarchy string      `yaml:"defaultHierarchy"`
	Hierarchies      []Hierarchy `yaml:"hierarchies"`
}

// Hierarchy is an ordered list of levels, root first
type Hierarchy struct {
	Name   string  `yaml:"name"`
	Levels []Level `yaml:"levels"`
}

// Level is one grouping granularity of a hierarchy
type Level struct {
	Name     string `yaml:"name" validate:"required"`
	DataType string `yaml:"dataType" default:"string"`
}

// Measure is an aggregatable cube fact
type Measure struct {
	Name     string `yaml:"name" validate:"required"`
	Function string `yaml:"function" default:"sum"`
	DataType string `yaml:"dataType" default:"decimal"`
}

// Dimension returns the named dimension
func (c *Catalog) Dimension(name string) (*Dimension, error) {
	for i := range c.Dimensions {
		if c.Dimensions[i].Name == name {
			return &c.Dimensions[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s in cube %s", ErrDimensionNotFound, name, c.Name)
}

// Measure returns the named measure
func (c *Catalog) Measure(name string) (*Measure, error) {
	for i := range c.Measures {
		if c.Measures[i].Name == name {
			return &c.Measures[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s in cube %s", ErrMeasureNotFound, name, c.Name)
}

// Hierarchy returns the default hierarchy of the dimension. Without an explicit default the
// first hierarchy is used.
func (d *Dimension) Hierarchy() (*Hierarchy, error) {
	if len(d.Hierarchies) == 0 {
		return nil, fmt.Errorf("%w: dimension %s has no hierarchies", ErrHierarchyNotFound, d.Name)
	}

	if d.DefaultHierarchy == "" {
		return &d.Hierarchies[0], nil
	}

	for i := range d.Hierarchies {
		if d.Hierarchies[i].Name == d.DefaultHierarchy {
			return &d.Hierarchies[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s in dimension %s", ErrHierarchyNotFound, d.DefaultHierarchy, d.Name)
}

// LevelIndex returns the depth of the named level, root being 0
func (h *Hierarchy) LevelIndex(name string) (int, error) {
	for i := range h.Levels {
		if h.Levels[i].Name == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %s in hierarchy %s", ErrLevelNotFound, name, h.Name)
}

// LevelNames returns level names in depth order
func (h *Hierarchy) LevelNames() []string {
	names := make([]string, 0, len(h.Levels))
	for _, level := range h.Levels {
		names = append(names, level.Name)
	}

	return names
}

// SetDefaults fills hierarchy names that were left out of the catalog file
func (c *Catalog) SetDefaults() {
	for i := range c.Dimensions {
		dim := &c.Dimensions[i]
		for j := range dim.Hierarchies {
			if dim.Hierarchies[j].Name == "" {
				dim.Hierarchies[j].Name = dim.Name
			}
		}
	}
}

// Validate checks the catalog for missing and duplicate names
func (c *Catalog) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: cube", ErrNameRequired)
	}

	dimensions := make(map[string]bool, len(c.Dimensions))
	for i := range c.Dimensions {
		dim := &c.Dimensions[i]
		if dim.Name == "" {
			return fmt.Errorf("%w: dimension %d of cube %s", ErrNameRequired, i, c.Name)
		}
		if dimensions[dim.Name] {
			return fmt.Errorf("%w: dimension %s in cube %s", ErrDuplicateName, dim.Name, c.Name)
		}
		dimensions[dim.Name] = true

		if _, err := dim.Hierarchy(); err != nil {
			return err
		}

		for j := range dim.Hierarchies {
			levels := make(map[string]bool, len(dim.Hierarchies[j].Levels))
			for _, level := range dim.Hierarchies[j].Levels {
				if level.Name == "" {
					return fmt.Errorf("%w: level in hierarchy %s", ErrNameRequired, dim.Hierarchies[j].Name)
				}
				if levels[level.Name] {
					return fmt.Errorf("%w: level %s in hierarchy %s", ErrDuplicateName, level.Name, dim.Hierarchies[j].Name)
				}
				levels[level.Name] = true
			}
		}
	}

	measures := make(map[string]bool, len(c.Measures))
	for _, m := range c.Measures {
		if m.Name == "" {
			return fmt.Errorf("%w: measure in cube %s", ErrNameRequired, c.Name)
		}
		if measures[m.Name] {
			return fmt.Errorf("%w: measure %s in cube %s", ErrDuplicateName, m.Name, c.Name)
		}
		measures[m.Name] = true
	}

	return nil
}
