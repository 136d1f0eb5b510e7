package planner

import (
	"github.com/ethpandaops/cubeplan/pkg/expression"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/sirupsen/logrus"
)

// injectFilters adds the container's filters to the plan
func (b *builder) injectFilters() {
	for _, cond := range b.filterConditions() {
		filter := &query.Filter{
			Expression: cond.Expression,
			Operator:   adaptOperator(cond.Operator),
		}

		if filter.Operator.IsList() {
			filter.Values = cond.Values
		} else {
			filter.Values = rangeValues(cond.Value1, cond.Value2)
		}

		filter.QualifyLevels, filter.QualifyValues = b.memberPath(cond.Member)

		if level := b.filterTarget(&cond); level != nil {
			filter.Target = level.Ref()
		}

		b.log.WithFields(logrus.Fields{
			"expression": filter.Expression,
			"operator":   filter.Operator,
			"target":     filter.Target.String(),
		}).Debug("Added filter")

		b.plan.AddFilter(filter)
	}
}

// filterConditions returns the filters to apply. Containers in a multi-view wrapper take their
// filters from the host crosstab: column levels, row levels, then measures.
func (b *builder) filterConditions() []report.FilterCondition {
	if !b.container.InMultiView {
		return b.container.Filters
	}

	host := b.container.Host
	if host == nil {
		return nil
	}

	var conditions []report.FilterCondition
	for _, axis := range []*report.Axis{&host.Columns, &host.Rows} {
		for _, dv := range axis.Dimensions {
			for _, lv := range dv.Levels {
				conditions = append(conditions, lv.Filters...)
			}
		}
	}

	for _, mv := range host.Measures {
		conditions = append(conditions, mv.Filters...)
	}

	return conditions
}

// memberPath flattens a member qualifier into parallel level and value lists, root to leaf. Only
// the first child is followed and the walk stops at a level the plan does not group on.
func (b *builder) memberPath(member *report.MemberValue) ([]query.LevelRef, []any) {
	var (
		levels []query.LevelRef
		values []any
	)

	for member != nil {
		level := b.plan.Level(queryRef(member.Level))
		if level == nil {
			break
		}

		levels = append(levels, level.Ref())
		values = append(values, member.Value)

		if len(member.Members) == 0 {
			break
		}
		member = &member.Members[0]
	}

	return levels, values
}

// filterTarget is the member path's level, else the level the filter expression resolves to
func (b *builder) filterTarget(cond *report.FilterCondition) *query.Level {
	if cond.Member != nil {
		return b.plan.Level(queryRef(cond.Member.Level))
	}

	if level, ok := b.levels[b.resolveName(cond.Expression)]; ok {
		return level
	}

	if dimension, level, ok := expression.LevelNames(cond.Expression); ok {
		return b.plan.Level(query.LevelRef{Dimension: dimension, Level: level})
	}

	return nil
}

func rangeValues(value1, value2 any) []any {
	switch {
	case value1 == nil && value2 == nil:
		return nil
	case value2 == nil:
		return []any{value1}
	default:
		return []any{value1, value2}
	}
}

func queryRef(ref report.LevelRef) query.LevelRef {
	return query.LevelRef{Dimension: ref.Dimension, Level: ref.Level}
}
