// Package report holds the read-only report item model consumed by the planner and span resolver
package report

// ChartKind distinguishes charts with axes from pie-style charts without axes
type ChartKind string

const (
	// ChartWithAxes is a chart with category and value axes
	ChartWithAxes ChartKind = "axes"
	// ChartWithoutAxes is a chart without axes, such as a pie
	ChartWithoutAxes ChartKind = "noaxes"
)

// SortOption is the sort direction declared on a series
type SortOption string

const (
	// SortUnset means the series is not sorted
	SortUnset SortOption = ""
	// SortAscending sorts ascending
	SortAscending SortOption = "ascending"
	// SortDescending sorts descending
	SortDescending SortOption = "descending"
)

// AxisType identifies a crosstab axis
type AxisType int

const (
	// RowAxis is the vertical crosstab axis
	RowAxis AxisType = iota
	// ColumnAxis is the horizontal crosstab axis
	ColumnAxis
)

func (a AxisType) String() string {
	if a == ColumnAxis {
		return "column"
	}
	return "row"
}

// LevelRef identifies a cube level by dimension and level name
type LevelRef struct {
	Dimension string `yaml:"dimension" json:"dimension"`
	Level     string `yaml:"level" json:"level"`
}

// IsZero reports whether the reference is empty
func (r LevelRef) IsZero() bool {
	return r.Dimension == "" && r.Level == ""
}

func (r LevelRef) String() string {
	return r.Dimension + "/" + r.Level
}

// ComputedColumn is a column binding declared on a report item
type ComputedColumn struct {
	Name              string   `yaml:"name"`
	DataType          string   `yaml:"dataType"`
	Expression        string   `yaml:"expression"`
	AggregateFunction string   `yaml:"aggregateFunction,omitempty"`
	AggregateOn       []string `yaml:"aggregateOn,omitempty"` // full level names, dimension/level
}

// SeriesDefinition is one chart series: its data queries, optional grouping and sorting
type SeriesDefinition struct {
	Grouping string     `yaml:"grouping,omitempty"`
	Data     []string   `yaml:"data"`
	SortKey  string     `yaml:"sortKey,omitempty"`
	Sorting  SortOption `yaml:"sorting,omitempty"`
}

// Chart is the subset of the chart model the planner reads
type Chart struct {
	Kind       ChartKind          `yaml:"kind" default:"axes"`
	Transposed bool               `yaml:"transposed"`
	Series     []SeriesDefinition `yaml:"series"` // base series first, then value series
}

// MemberValue qualifies a filter with a level value, optionally nested to deeper levels
type MemberValue struct {
	Level   LevelRef      `yaml:"level"`
	Value   any           `yaml:"value"`
	Members []MemberValue `yaml:"members,omitempty"`
}

// FilterCondition is a filter declared on a report item, level view or measure view
type FilterCondition struct {
	Expression string       `yaml:"expression"`
	Operator   string       `yaml:"operator"`
	Value1     any          `yaml:"value1,omitempty"`
	Value2     any          `yaml:"value2,omitempty"`
	Values     []any        `yaml:"values,omitempty"` // list operand for in / not-in
	Member     *MemberValue `yaml:"member,omitempty"`
}

// Container is a chart or table report item whose query is being planned
type Container struct {
	Name        string            `yaml:"name"`
	Cube        string            `yaml:"cube,omitempty"`
	Bindings    []ComputedColumn  `yaml:"bindings"`
	Chart       Chart             `yaml:"chart"`
	Filters     []FilterCondition `yaml:"filters,omitempty"`
	Host        *Crosstab         `yaml:"-"`
	HostName    string            `yaml:"host,omitempty"`
	InMultiView bool              `yaml:"multiView,omitempty"`
}

// Nested reports whether the container sits inside a crosstab
func (c *Container) Nested() bool {
	return c.Host != nil
}
