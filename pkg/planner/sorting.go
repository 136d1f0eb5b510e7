package planner

import (
	"github.com/ethpandaops/cubeplan/pkg/expression"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/sirupsen/logrus"
)

// injectSorting adds the series sort. A level key sorts the level itself; a measure key sorts the
// target level by the measure aggregated on it.
func (b *builder) injectSorting(sd *report.SeriesDefinition, index int) error {
	if sd.SortKey == "" || sd.Sorting == report.SortUnset {
		return nil
	}

	direction := query.SortAscending
	if sd.Sorting == report.SortDescending {
		direction = query.SortDescending
	}

	log := b.log.WithFields(logrus.Fields{
		"series":   index,
		"sort_key": sd.SortKey,
	})

	key := b.resolveName(sd.SortKey)
	if level, ok := b.levels[key]; ok {
		b.plan.AddSort(&query.Sort{
			Expression: sd.SortKey,
			Target:     level.Ref(),
			Direction:  direction,
		})

		return nil
	}

	measure, ok := b.measures[key]
	if !ok {
		log.Debug("Sort key is neither a level nor a measure, skipping")
		return nil
	}

	// The base series sorts its category, value series sort their optional grouping
	target := sd.Grouping
	if index == 0 {
		target = ""
		if len(sd.Data) > 0 {
			target = sd.Data[0]
		}
	}

	targetName := b.resolveName(target)
	targetLevel, ok := b.levels[targetName]
	if !ok {
		log.WithField("target", target).Debug("Sort target is not a level, skipping")
		return nil
	}

	measureBinding := b.bindings[key]
	aggregateName := measureBinding.Name + targetName

	aggregate := b.plan.Binding(aggregateName)
	if aggregate == nil {
		aggregate = &query.Binding{
			Name:              aggregateName,
			DataType:          measureBinding.DataType,
			Expression:        measureBinding.Expression,
			AggregateFunction: measure.AggregateFunction,
		}
		aggregate.AddAggregateOn(b.queries[targetName])

		if err := b.plan.AddBinding(aggregate); err != nil {
			return err
		}

		log.WithField("binding", aggregateName).Debug("Added sort aggregation binding")
	}

	b.plan.AddSort(&query.Sort{
		Expression: expression.Data(aggregateName),
		Target:     targetLevel.Ref(),
		Direction:  direction,
	})

	return nil
}
