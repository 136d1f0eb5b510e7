package planner

import (
	"github.com/ethpandaops/cubeplan/pkg/expression"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
)

// newSubPlan anchors a nested chart to the host crosstab's grouping so it shares the crosstab's
// aggregation context. Returns nil when the layout offers no anchor.
func newSubPlan(container *report.Container) *query.SubPlan {
	host := container.Host
	if host == nil || container.Chart.Kind != report.ChartWithAxes {
		return nil
	}

	// The category axis of a transposed chart runs along the crosstab columns
	if container.Chart.Transposed {
		columnAnchor, rowAnchor, ok := anchors(&host.Columns, &host.Rows)
		if !ok {
			return nil
		}

		return &query.SubPlan{
			Name:                  subPlanName,
			StartingLevelOnRow:    rowAnchor,
			StartingLevelOnColumn: columnAnchor,
		}
	}

	rowAnchor, columnAnchor, ok := anchors(&host.Rows, &host.Columns)
	if !ok {
		return nil
	}

	return &query.SubPlan{
		Name:                  subPlanName,
		StartingLevelOnRow:    rowAnchor,
		StartingLevelOnColumn: columnAnchor,
	}
}

// anchors picks the starting levels. With any primary level the sub-plan starts at the innermost
// primary level, and at the second innermost secondary level when the secondary axis has several.
// Without primary levels only a multi-level secondary axis can anchor.
func anchors(primary, secondary *report.Axis) (primaryAnchor, secondaryAnchor string, ok bool) {
	primaryCount := primary.LevelCount()
	secondaryCount := secondary.LevelCount()

	switch {
	case primaryCount >= 1:
		primaryAnchor = levelExpression(primary, primaryCount-1)
		if secondaryCount > 1 {
			secondaryAnchor = levelExpression(secondary, secondaryCount-2)
		}
		return primaryAnchor, secondaryAnchor, true
	case secondaryCount > 1:
		return "", levelExpression(secondary, secondaryCount-2), true
	default:
		return "", "", false
	}
}

func levelExpression(axis *report.Axis, index int) string {
	ref, ok := axis.Level(index)
	if !ok {
		return ""
	}

	return expression.Dimension(ref.Dimension, ref.Level)
}
