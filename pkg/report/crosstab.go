package report

// Crosstab is the tabular layout a container may be nested in
type Crosstab struct {
	Name     string        `yaml:"name"`
	Cube     string        `yaml:"cube"`
	Rows     Axis          `yaml:"rows"`
	Columns  Axis          `yaml:"columns"`
	Measures []MeasureView `yaml:"measures,omitempty"`
}

// Axis is one crosstab axis: its dimension views in layout order
type Axis struct {
	Dimensions []DimensionView `yaml:"dimensions,omitempty"`
}

// DimensionView is a cube dimension laid out on an axis
type DimensionView struct {
	Dimension string      `yaml:"dimension"`
	Levels    []LevelView `yaml:"levels"`
}

// LevelView is a cube level laid out on an axis
type LevelView struct {
	Level             string            `yaml:"level"`
	AggregationHeader bool              `yaml:"aggregationHeader,omitempty"`
	Filters           []FilterCondition `yaml:"filters,omitempty"`
}

// MeasureView is a measure laid out in the crosstab body
type MeasureView struct {
	Measure          string            `yaml:"measure"`
	Filters          []FilterCondition `yaml:"filters,omitempty"`
	AggregationCells []AggregationCell `yaml:"aggregations,omitempty"`
}

// AggregationCell is a subtotal or grand total cell for a measure. An empty row or column
// reference means the grand total on that axis.
type AggregationCell struct {
	Row    LevelRef `yaml:"row,omitempty"`
	Column LevelRef `yaml:"column,omitempty"`
}

// Axis returns the axis of the given type
func (x *Crosstab) Axis(axis AxisType) *Axis {
	if axis == ColumnAxis {
		return &x.Columns
	}
	return &x.Rows
}

// LevelCount returns the number of levels laid out on the axis, over all dimensions
func (a *Axis) LevelCount() int {
	count := 0
	for _, dv := range a.Dimensions {
		count += len(dv.Levels)
	}

	return count
}

// Level returns the level at the flattened index, counting across dimensions in layout order
func (a *Axis) Level(index int) (LevelRef, bool) {
	if index < 0 {
		return LevelRef{}, false
	}

	for _, dv := range a.Dimensions {
		if index < len(dv.Levels) {
			return LevelRef{Dimension: dv.Dimension, Level: dv.Levels[index].Level}, true
		}
		index -= len(dv.Levels)
	}

	return LevelRef{}, false
}

// LevelView returns the level view at a dimension and level index
func (a *Axis) LevelView(dimensionIndex, levelIndex int) (*LevelView, bool) {
	if dimensionIndex < 0 || dimensionIndex >= len(a.Dimensions) {
		return nil, false
	}

	dv := &a.Dimensions[dimensionIndex]
	if levelIndex < 0 || levelIndex >= len(dv.Levels) {
		return nil, false
	}

	return &dv.Levels[levelIndex], true
}

// HasAggregationHeader reports whether the level has a subtotal header configured
func (a *Axis) HasAggregationHeader(dimensionIndex, levelIndex int) bool {
	lv, ok := a.LevelView(dimensionIndex, levelIndex)
	return ok && lv.AggregationHeader
}

// AggregationCell returns the measure's aggregation cell for the row/column level pair
func (m *MeasureView) AggregationCell(row, column LevelRef) (*AggregationCell, bool) {
	for i := range m.AggregationCells {
		if m.AggregationCells[i].Row == row && m.AggregationCells[i].Column == column {
			return &m.AggregationCells[i], true
		}
	}

	return nil, false
}
