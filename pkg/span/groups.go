package span

import (
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
)

// Groups derives the edge groups of a crosstab axis, dimension by dimension in layout order
func Groups(axis *report.Axis) []EdgeGroup {
	groups := make([]EdgeGroup, 0, axis.LevelCount())
	for i, dv := range axis.Dimensions {
		for j := range dv.Levels {
			groups = append(groups, EdgeGroup{DimensionIndex: i, LevelIndex: j})
		}
	}

	return groups
}

// GroupsFromPlan derives the edge groups of a plan edge, levels in hierarchy order
func GroupsFromPlan(plan *query.Plan, edgeType query.EdgeType) []EdgeGroup {
	edge := plan.Edge(edgeType)
	if edge == nil {
		return nil
	}

	var groups []EdgeGroup
	for i, d := range edge.Dimensions {
		if d.Hierarchy == nil {
			continue
		}
		for j := range d.Hierarchy.Levels {
			groups = append(groups, EdgeGroup{DimensionIndex: i, LevelIndex: j})
		}
	}

	return groups
}

// HasTotalContent reports whether any measure defines an aggregation cell for the total at
// (dimensionIndex, levelIndex) on the axis. A negative index asks for the grand total. A
// measure index outside the crosstab checks every measure.
func HasTotalContent(x *report.Crosstab, axis report.AxisType, dimensionIndex, levelIndex, measureIndex int) bool {
	measures := x.Measures
	if measureIndex >= 0 && measureIndex < len(measures) {
		measures = measures[measureIndex : measureIndex+1]
	}
	if len(measures) == 0 {
		return false
	}

	// Totals on one axis are crossed with every level of the other
	other := x.Axis(report.RowAxis)
	if axis == report.RowAxis {
		other = x.Axis(report.ColumnAxis)
	}

	var total report.LevelRef
	if dimensionIndex >= 0 && levelIndex >= 0 {
		lv, ok := x.Axis(axis).LevelView(dimensionIndex, levelIndex)
		if !ok {
			return false
		}
		total = report.LevelRef{Dimension: x.Axis(axis).Dimensions[dimensionIndex].Dimension, Level: lv.Level}
	}

	for i := 0; i < other.LevelCount(); i++ {
		crossed, _ := other.Level(i)

		row, column := crossed, total
		if axis == report.RowAxis {
			row, column = total, crossed
		}

		for k := range measures {
			if _, ok := measures[k].AggregationCell(row, column); ok {
				return true
			}
		}
	}

	return false
}
