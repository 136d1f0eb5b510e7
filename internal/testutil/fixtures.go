package testutil

import (
	"testing"

	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/stretchr/testify/require"
)

// SalesCube is the name of the fixture cube
const SalesCube = "sales"

// SalesCatalog returns a cube with Geography (Country/Region/City), Time (Year/Quarter/Month on
// the default Calendar hierarchy) and Product (Line/Item) dimensions, and Sales, Units and Price
// measures.
func SalesCatalog() *cube.Catalog {
	return &cube.Catalog{
		Name: SalesCube,
		Dimensions: []cube.Dimension{
			{
				Name: "Geography",
				Hierarchies: []cube.Hierarchy{{
					Name:   "Geography",
					Levels: []cube.Level{{Name: "Country"}, {Name: "Region"}, {Name: "City"}},
				}},
			},
			{
				Name:             "Time",
				DefaultHierarchy: "Calendar",
				Hierarchies: []cube.Hierarchy{
					{Name: "Fiscal", Levels: []cube.Level{{Name: "FiscalYear"}, {Name: "Period"}}},
					{Name: "Calendar", Levels: []cube.Level{{Name: "Year"}, {Name: "Quarter"}, {Name: "Month"}}},
				},
			},
			{
				Name: "Product",
				Hierarchies: []cube.Hierarchy{{
					Name:   "Product",
					Levels: []cube.Level{{Name: "Line"}, {Name: "Item"}},
				}},
			},
		},
		Measures: []cube.Measure{
			{Name: "Sales", Function: "sum", DataType: "decimal"},
			{Name: "Units", Function: "count", DataType: "integer"},
			{Name: "Price", Function: "average", DataType: "decimal"},
		},
	}
}

// SalesRepository returns a repository holding the fixture cube
func SalesRepository(t *testing.T) *cube.Repository {
	t.Helper()

	repo, err := cube.NewRepository(SalesCatalog())
	require.NoError(t, err)

	return repo
}

// TestContainerOption is a functional option for customizing test containers.
type TestContainerOption func(*report.Container)

// NewTestContainer creates a chart container bound to the fixture cube
func NewTestContainer(name string, opts ...TestContainerOption) *report.Container {
	c := &report.Container{
		Name:  name,
		Cube:  SalesCube,
		Chart: report.Chart{Kind: report.ChartWithAxes},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithBinding declares a computed column
func WithBinding(name, dataType, expr string, aggregateOn ...string) TestContainerOption {
	return func(c *report.Container) {
		c.Bindings = append(c.Bindings, report.ComputedColumn{
			Name:        name,
			DataType:    dataType,
			Expression:  expr,
			AggregateOn: aggregateOn,
		})
	}
}

// WithSeries appends a chart series
func WithSeries(sd report.SeriesDefinition) TestContainerOption {
	return func(c *report.Container) {
		c.Chart.Series = append(c.Chart.Series, sd)
	}
}

// WithFilter appends a container filter
func WithFilter(f report.FilterCondition) TestContainerOption {
	return func(c *report.Container) {
		c.Filters = append(c.Filters, f)
	}
}

// WithHost nests the container in a crosstab, taking the cube from it
func WithHost(host *report.Crosstab) TestContainerOption {
	return func(c *report.Container) {
		c.Cube = ""
		c.Host = host
		c.HostName = host.Name
	}
}

// WithMultiView marks the container as wrapped in a multi-view item
func WithMultiView() TestContainerOption {
	return func(c *report.Container) {
		c.InMultiView = true
	}
}

// WithChart sets the chart kind and orientation
func WithChart(kind report.ChartKind, transposed bool) TestContainerOption {
	return func(c *report.Container) {
		c.Chart.Kind = kind
		c.Chart.Transposed = transposed
	}
}

// NewTestCrosstab creates a crosstab on the fixture cube. Consecutive levels of the same
// dimension share one dimension view.
func NewTestCrosstab(name string, rows, columns []report.LevelRef) *report.Crosstab {
	return &report.Crosstab{
		Name:    name,
		Cube:    SalesCube,
		Rows:    axisOf(rows),
		Columns: axisOf(columns),
	}
}

func axisOf(levels []report.LevelRef) report.Axis {
	var axis report.Axis
	for _, ref := range levels {
		n := len(axis.Dimensions)
		if n == 0 || axis.Dimensions[n-1].Dimension != ref.Dimension {
			axis.Dimensions = append(axis.Dimensions, report.DimensionView{Dimension: ref.Dimension})
			n++
		}
		axis.Dimensions[n-1].Levels = append(axis.Dimensions[n-1].Levels, report.LevelView{Level: ref.Level})
	}

	return axis
}

// Level is shorthand for a report level reference
func Level(dimension, level string) report.LevelRef {
	return report.LevelRef{Dimension: dimension, Level: level}
}
