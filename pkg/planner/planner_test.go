package planner

import (
	"testing"

	"github.com/ethpandaops/cubeplan/internal/testutil"
	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/query"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	regionExpr  = `dimension["Geography"]["Region"]`
	cityExpr    = `dimension["Geography"]["City"]`
	countryExpr = `dimension["Geography"]["Country"]`
	yearExpr    = `dimension["Time"]["Year"]`
	salesExpr   = `measure["Sales"]`
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()

	return New(logrus.New(), testutil.SalesRepository(t))
}

func buildPlan(t *testing.T, container *report.Container, mode Mode) *query.Plan {
	t.Helper()

	def, err := newTestPlanner(t).CreatePlan(container, mode)
	require.NoError(t, err)

	plan, ok := def.(*query.Plan)
	require.True(t, ok, "expected a full plan, got %T", def)

	return plan
}

func bindingNames(plan *query.Plan) []string {
	names := make([]string, 0, len(plan.Bindings))
	for _, b := range plan.Bindings {
		names = append(names, b.Name)
	}

	return names
}

func edgeLevels(t *testing.T, plan *query.Plan, edgeType query.EdgeType) []string {
	t.Helper()

	edge := plan.Edge(edgeType)
	require.NotNil(t, edge, "missing %s edge", edgeType)
	require.Len(t, edge.Dimensions, 1)

	names := []string{}
	for _, l := range edge.Dimensions[0].Hierarchy.Levels {
		names = append(names, l.Name)
	}

	return names
}

func TestCreatePlan_DirectMeasureReference(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithSeries(report.SeriesDefinition{Data: []string{salesExpr}}),
	)

	plan := buildPlan(t, container, ModeRender)

	assert.NotEqual(t, uuid.Nil, plan.ID)
	assert.Equal(t, testutil.SalesCube, plan.Cube)
	require.Len(t, plan.Measures, 1)
	assert.Equal(t, "Sales", plan.Measures[0].Name)
	assert.Equal(t, query.AggregateSum, plan.Measures[0].AggregateFunction)

	require.Len(t, plan.Bindings, 1)
	assert.Equal(t, "measure[Sales]", plan.Bindings[0].Name)
	assert.Equal(t, query.DataTypeAny, plan.Bindings[0].DataType)
	assert.Equal(t, salesExpr, plan.Bindings[0].Expression)
}

func TestCreatePlan_MeasureAggregateFunctionFromCatalog(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("price", "decimal", `measure["Price"]`),
		testutil.WithBinding("units", "integer", `measure["Units"]`),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["price"]`, `data["units"]`}}),
	)

	plan := buildPlan(t, container, ModeRender)

	require.NotNil(t, plan.Measure("Price"))
	assert.Equal(t, query.AggregateAverage, plan.Measure("Price").AggregateFunction)
	require.NotNil(t, plan.Measure("Units"))
	assert.Equal(t, query.AggregateCount, plan.Measure("Units").AggregateFunction)
	assert.Equal(t, query.DataTypeInteger, plan.Binding("units").DataType)
}

func TestCreatePlan_CategoryAndValueSeries(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("region", "string", regionExpr),
		testutil.WithBinding("total", "decimal", salesExpr),
		testutil.WithBinding("unused", "decimal", `measure["Units"]`),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["region"]`}}),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["total"]`}}),
	)

	plan := buildPlan(t, container, ModeRender)

	assert.Equal(t, []string{"region", "total"}, bindingNames(plan), "unused bindings stay out of the plan")
	assert.Equal(t, []string{"Region"}, edgeLevels(t, plan, query.EdgeRow))
	assert.Nil(t, plan.Edge(query.EdgeColumn))

	dim := plan.Edge(query.EdgeRow).Dimensions[0]
	assert.Equal(t, "Geography", dim.Name)
	assert.Equal(t, "Geography", dim.Hierarchy.Name)
	assert.Same(t, dim, dim.Hierarchy.Dimension())

	assert.Equal(t, []string{regionExpr}, plan.Binding("total").AggregateOn)
	assert.Empty(t, plan.Binding("region").AggregateOn)
}

func TestCreatePlan_SecondDimensionOnColumnEdge(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithSeries(report.SeriesDefinition{Data: []string{regionExpr}}),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{salesExpr}, Grouping: yearExpr}),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{salesExpr}, Grouping: cityExpr}),
	)

	plan := buildPlan(t, container, ModeRender)

	assert.Equal(t, []string{"Region", "City"}, edgeLevels(t, plan, query.EdgeRow))
	assert.Equal(t, []string{"Year"}, edgeLevels(t, plan, query.EdgeColumn))
	assert.Equal(t, "Calendar", plan.Edge(query.EdgeColumn).Dimensions[0].Hierarchy.Name,
		"default hierarchy is used")

	// Row edge levels first, then column edge levels
	assert.Equal(t, []string{regionExpr, cityExpr, yearExpr}, plan.Binding("measure[Sales]").AggregateOn)
}

func TestCreatePlan_LevelOrderIndependentOfReferenceOrder(t *testing.T) {
	orders := [][]string{
		{cityExpr, countryExpr, regionExpr},
		{regionExpr, cityExpr, countryExpr},
		{cityExpr, regionExpr, countryExpr},
		{countryExpr, cityExpr, regionExpr},
	}

	for _, order := range orders {
		t.Run(order[0], func(t *testing.T) {
			opts := make([]testutil.TestContainerOption, 0, len(order))
			for _, expr := range order {
				opts = append(opts, testutil.WithSeries(report.SeriesDefinition{Grouping: expr}))
			}

			plan := buildPlan(t, testutil.NewTestContainer("chart", opts...), ModeRender)

			assert.Equal(t, []string{"Country", "Region", "City"}, edgeLevels(t, plan, query.EdgeRow))
		})
	}
}

func TestCreatePlan_SameLevelFromTwoBindings(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("region", "string", regionExpr),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["region"]`}, Grouping: regionExpr}),
	)

	plan := buildPlan(t, container, ModeRender)

	assert.Equal(t, []string{"Region"}, edgeLevels(t, plan, query.EdgeRow))
	assert.Len(t, plan.Bindings, 2)
}

func TestBindExpression_ReturnsSameBinding(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("total", "decimal", salesExpr),
	)
	b := newBuilder(logrus.New(), testutil.SalesCatalog(), container, ModeRender, DefaultNameAllocator{})
	require.NoError(t, b.registerBindings())

	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "raw measure", expr: salesExpr, want: "measure[Sales]"},
		{name: "binding reference", expr: `data["total"]`, want: "total"},
		{name: "binding with operations", expr: `data["total"] * 2`, want: "total"},
		{name: "other expression", expr: `1 + 2`, want: "1 + 2"},
		{name: "undeclared reference", expr: `data["missing"] * 2`, want: "data[missing]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := b.bindExpression(tt.expr)
			require.NoError(t, err)
			require.NotNil(t, first)

			second, err := b.bindExpression(tt.expr)
			require.NoError(t, err)

			assert.Same(t, first, second)
			assert.Equal(t, tt.want, first.Name)
		})
	}

	seen := map[string]bool{}
	for _, binding := range b.plan.Bindings {
		assert.False(t, seen[binding.Name], "binding %s registered twice", binding.Name)
		seen[binding.Name] = true
	}
	assert.Len(t, b.plan.Measures, 1, "both sales bindings share one measure")

	none, err := b.bindExpression("   ")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCreatePlan_BindingChain(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("double", "decimal", `data["total"] * 2`),
		testutil.WithBinding("total", "decimal", salesExpr),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["double"]`}}),
	)

	plan := buildPlan(t, container, ModeRender)

	assert.Equal(t, []string{"double", "total"}, bindingNames(plan))
	require.Len(t, plan.Measures, 1)
	assert.Equal(t, "Sales", plan.Measures[0].Name)
}

func TestCreatePlan_UndeclaredBindingReference(t *testing.T) {
	tests := []struct {
		name      string
		container *report.Container
		want      []string
	}{
		{
			name: "series reference",
			container: testutil.NewTestContainer("chart",
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["undeclared"]`}}),
			),
			want: []string{"data[undeclared]"},
		},
		{
			name: "reference with operations shares the binding",
			container: testutil.NewTestContainer("chart",
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["undeclared"]`}}),
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["undeclared"] * 2`}}),
			),
			want: []string{"data[undeclared]"},
		},
		{
			name: "declared binding referencing an undeclared one",
			container: testutil.NewTestContainer("chart",
				testutil.WithBinding("total", "decimal", `data["undeclared"]`),
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["total"]`}}),
			),
			want: []string{"total", "data[undeclared]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := buildPlan(t, tt.container, ModeRender)

			assert.Equal(t, tt.want, bindingNames(plan))
			assert.Empty(t, plan.Measures)

			generated := plan.Binding("data[undeclared]")
			require.NotNil(t, generated)
			assert.Equal(t, query.DataTypeAny, generated.DataType)
			assert.Equal(t, `data["undeclared"]`, generated.Expression)
		})
	}
}

func TestCreatePlan_Errors(t *testing.T) {
	tests := []struct {
		name      string
		container *report.Container
		wantErr   []error
	}{
		{
			name:      "no cube bound",
			container: &report.Container{Name: "orphan"},
			wantErr:   []error{ErrMissingCubeBinding},
		},
		{
			name:      "unknown cube",
			container: &report.Container{Name: "chart", Cube: "inventory"},
			wantErr:   []error{ErrMissingCubeBinding, cube.ErrCubeNotFound},
		},
		{
			name: "unknown level",
			container: testutil.NewTestContainer("chart",
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`dimension["Geography"]["Street"]`}}),
			),
			wantErr: []error{ErrUnresolvableLevelReference, cube.ErrLevelNotFound},
		},
		{
			name: "unknown dimension",
			container: testutil.NewTestContainer("chart",
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`dimension["Channel"]["Store"]`}}),
			),
			wantErr: []error{ErrUnresolvableLevelReference, cube.ErrDimensionNotFound},
		},
		{
			name: "unknown measure",
			container: testutil.NewTestContainer("chart",
				testutil.WithBinding("margin", "decimal", `measure["Margin"]`),
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["margin"]`}}),
			),
			wantErr: []error{ErrUnresolvableMeasure, cube.ErrMeasureNotFound},
		},
		{
			name: "binding cycle",
			container: testutil.NewTestContainer("chart",
				testutil.WithBinding("a", "any", `data["b"]`),
				testutil.WithBinding("b", "any", `data["a"] + 1`),
				testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["a"]`}}),
			),
			wantErr: []error{ErrBindingCycle},
		},
		{
			name: "self referencing binding",
			container: testutil.NewTestContainer("chart",
				testutil.WithBinding("a", "any", `data["a"]`),
			),
			wantErr: []error{ErrBindingCycle},
		},
		{
			name: "third grouping dimension",
			container: testutil.NewTestContainer("chart",
				testutil.WithSeries(report.SeriesDefinition{Data: []string{regionExpr}, Grouping: yearExpr}),
				testutil.WithSeries(report.SeriesDefinition{Data: []string{salesExpr}, Grouping: `dimension["Product"]["Line"]`}),
			),
			wantErr: []error{ErrTooManyDimensions},
		},
		{
			name: "malformed aggregate-on level",
			container: testutil.NewTestContainer("chart",
				testutil.WithBinding("total", "decimal", salesExpr, "Region"),
			),
			wantErr: []error{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := newTestPlanner(t).CreatePlan(tt.container, ModeRender)
			require.Error(t, err)
			assert.Nil(t, def)

			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}

	_, err := newTestPlanner(t).CreatePlan(nil, ModeRender)
	require.ErrorIs(t, err, ErrNilContainer)
}

func TestCreatePlan_SubPlan(t *testing.T) {
	region := testutil.Level("Geography", "Region")
	city := testutil.Level("Geography", "City")
	year := testutil.Level("Time", "Year")
	quarter := testutil.Level("Time", "Quarter")

	quarterExpr := `dimension["Time"]["Quarter"]`

	tests := []struct {
		name          string
		rows          []report.LevelRef
		columns       []report.LevelRef
		transposed    bool
		kind          report.ChartKind
		mode          Mode
		wantSubPlan   bool
		wantRowAnchor string
		wantColAnchor string
	}{
		{
			name:          "rows anchor on innermost row level",
			rows:          []report.LevelRef{region, city},
			columns:       []report.LevelRef{year},
			wantSubPlan:   true,
			wantRowAnchor: cityExpr,
		},
		{
			name:          "multi-level columns add column anchor",
			rows:          []report.LevelRef{region},
			columns:       []report.LevelRef{year, quarter},
			wantSubPlan:   true,
			wantRowAnchor: regionExpr,
			wantColAnchor: yearExpr,
		},
		{
			name:          "no rows and multi-level columns",
			columns:       []report.LevelRef{year, quarter},
			wantSubPlan:   true,
			wantColAnchor: yearExpr,
		},
		{
			name:    "no rows and single column level",
			columns: []report.LevelRef{year},
		},
		{
			name:          "transposed anchors on innermost column level",
			rows:          []report.LevelRef{region, city},
			columns:       []report.LevelRef{year, quarter},
			transposed:    true,
			wantSubPlan:   true,
			wantRowAnchor: regionExpr,
			wantColAnchor: quarterExpr,
		},
		{
			name:          "transposed without columns",
			rows:          []report.LevelRef{region, city},
			transposed:    true,
			wantSubPlan:   true,
			wantRowAnchor: regionExpr,
		},
		{
			name:       "transposed without columns and single row level",
			rows:       []report.LevelRef{region},
			transposed: true,
		},
		{
			name: "chart without axes",
			rows: []report.LevelRef{region},
			kind: report.ChartWithoutAxes,
		},
		{
			name: "live preview never uses sub-plans",
			rows: []report.LevelRef{region},
			mode: ModeLivePreview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := tt.kind
			if kind == "" {
				kind = report.ChartWithAxes
			}

			host := testutil.NewTestCrosstab("xtab", tt.rows, tt.columns)
			container := testutil.NewTestContainer("chart",
				testutil.WithHost(host),
				testutil.WithChart(kind, tt.transposed),
			)

			def, err := newTestPlanner(t).CreatePlan(container, tt.mode)
			require.NoError(t, err)

			if !tt.wantSubPlan {
				plan, ok := def.(*query.Plan)
				require.True(t, ok, "expected a full plan, got %T", def)
				assert.Equal(t, testutil.SalesCube, plan.Cube, "cube comes from the host crosstab")
				return
			}

			sub, ok := def.(*query.SubPlan)
			require.True(t, ok, "expected a sub-plan, got %T", def)
			assert.Equal(t, "chart_subquery", sub.QueryName())
			assert.Equal(t, tt.wantRowAnchor, sub.StartingLevelOnRow)
			assert.Equal(t, tt.wantColAnchor, sub.StartingLevelOnColumn)
		})
	}
}

func TestCreatePlan_OwnCubeSkipsSubPlan(t *testing.T) {
	host := testutil.NewTestCrosstab("xtab", []report.LevelRef{testutil.Level("Geography", "Region")}, nil)
	container := testutil.NewTestContainer("chart", testutil.WithHost(host))
	container.Cube = testutil.SalesCube

	buildPlan(t, container, ModeRender)
}

func TestCreatePlan_AggregateOn(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("region", "string", regionExpr),
		testutil.WithBinding("total", "decimal", salesExpr, "Geography/City"),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["region"]`}}),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["total"]`}}),
	)

	t.Run("render keeps declared levels", func(t *testing.T) {
		plan := buildPlan(t, container, ModeRender)
		assert.Equal(t, []string{cityExpr}, plan.Binding("total").AggregateOn)
	})

	t.Run("live preview drops declared levels", func(t *testing.T) {
		plan := buildPlan(t, container, ModeLivePreview)
		assert.Equal(t, []string{regionExpr}, plan.Binding("total").AggregateOn,
			"demanded aggregation fills in the plan levels")
	})
}

func TestCreatePlan_SortOnMeasure(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("region", "string", regionExpr),
		testutil.WithBinding("total", "decimal", salesExpr),
		testutil.WithSeries(report.SeriesDefinition{
			Data:    []string{`data["region"]`},
			SortKey: `data["total"]`,
			Sorting: report.SortDescending,
		}),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["total"]`}}),
	)

	plan := buildPlan(t, container, ModeRender)

	assert.Equal(t, []string{"region", "total", "totalregion"}, bindingNames(plan))

	synthetic := plan.Binding("totalregion")
	require.NotNil(t, synthetic)
	assert.Equal(t, salesExpr, synthetic.Expression)
	assert.Equal(t, query.DataTypeDecimal, synthetic.DataType)
	assert.Equal(t, query.AggregateSum, synthetic.AggregateFunction)
	assert.Equal(t, []string{regionExpr}, synthetic.AggregateOn)

	require.Len(t, plan.Sorts, 1)
	assert.Equal(t, &query.Sort{
		Expression: `data["totalregion"]`,
		Target:     query.LevelRef{Dimension: "Geography", Level: "Region"},
		Direction:  query.SortDescending,
	}, plan.Sorts[0])
}

func TestCreatePlan_SortOnGroupingOfValueSeries(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("region", "string", regionExpr),
		testutil.WithBinding("year", "integer", yearExpr),
		testutil.WithBinding("total", "decimal", salesExpr),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["region"]`}}),
		testutil.WithSeries(report.SeriesDefinition{
			Data:     []string{`data["total"]`},
			Grouping: `data["year"]`,
			SortKey:  `data["total"]`,
			Sorting:  report.SortAscending,
		}),
		testutil.WithSeries(report.SeriesDefinition{
			Data:     []string{`data["total"]`},
			Grouping: `data["year"]`,
			SortKey:  `data["total"]`,
			Sorting:  report.SortAscending,
		}),
	)

	plan := buildPlan(t, container, ModeRender)

	count := 0
	for _, b := range plan.Bindings {
		if b.Name == "totalyear" {
			count++
		}
	}
	assert.Equal(t, 1, count, "synthetic binding is added once")
	assert.Equal(t, []string{yearExpr}, plan.Binding("totalyear").AggregateOn)

	require.Len(t, plan.Sorts, 2)
	assert.Equal(t, query.LevelRef{Dimension: "Time", Level: "Year"}, plan.Sorts[0].Target)
	assert.Equal(t, query.SortAscending, plan.Sorts[0].Direction)
}

func TestCreatePlan_SortOnLevel(t *testing.T) {
	tests := []struct {
		name      string
		sortKey   string
		sorting   report.SortOption
		wantSorts []*query.Sort
	}{
		{
			name:    "ascending on level binding",
			sortKey: `data["region"]`,
			sorting: report.SortAscending,
			wantSorts: []*query.Sort{{
				Expression: `data["region"]`,
				Target:     query.LevelRef{Dimension: "Geography", Level: "Region"},
				Direction:  query.SortAscending,
			}},
		},
		{
			name:    "unset sorting is skipped",
			sortKey: `data["region"]`,
		},
		{
			name:    "unknown key is skipped",
			sortKey: `data["nothing"]`,
			sorting: report.SortDescending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container := testutil.NewTestContainer("chart",
				testutil.WithBinding("region", "string", regionExpr),
				testutil.WithSeries(report.SeriesDefinition{
					Data:    []string{`data["region"]`},
					SortKey: tt.sortKey,
					Sorting: tt.sorting,
				}),
			)

			plan := buildPlan(t, container, ModeRender)
			assert.Equal(t, tt.wantSorts, plan.Sorts)
		})
	}
}

func TestCreatePlan_Filters(t *testing.T) {
	container := testutil.NewTestContainer("chart",
		testutil.WithBinding("region", "string", regionExpr),
		testutil.WithBinding("city", "string", cityExpr),
		testutil.WithBinding("total", "decimal", salesExpr),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["region"]`}}),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{`data["total"]`}, Grouping: `data["city"]`}),
		testutil.WithFilter(report.FilterCondition{
			Expression: `data["total"]`,
			Operator:   "gt",
			Value1:     100,
			Member: &report.MemberValue{
				Level: testutil.Level("Geography", "Region"),
				Value: "EU",
				Members: []report.MemberValue{
					{
						Level: testutil.Level("Geography", "City"),
						Value: "Paris",
						Members: []report.MemberValue{
							{Level: testutil.Level("Geography", "Street"), Value: "Rivoli"},
						},
					},
					{Level: testutil.Level("Geography", "City"), Value: "Lyon"},
				},
			},
		}),
		testutil.WithFilter(report.FilterCondition{
			Expression: `data["region"]`,
			Operator:   "in",
			Values:     []any{"EU", "US"},
		}),
		testutil.WithFilter(report.FilterCondition{
			Expression: `data["total"]`,
			Operator:   "between",
			Value1:     10,
			Value2:     20,
			Member:     &report.MemberValue{Level: testutil.Level("Time", "Year"), Value: 2020},
		}),
	)

	plan := buildPlan(t, container, ModeRender)
	require.Len(t, plan.Filters, 3)

	memberFilter := plan.Filters[0]
	assert.Equal(t, query.OperatorGreater, memberFilter.Operator)
	assert.Equal(t, []any{100}, memberFilter.Values)
	assert.Equal(t, []query.LevelRef{
		{Dimension: "Geography", Level: "Region"},
		{Dimension: "Geography", Level: "City"},
	}, memberFilter.QualifyLevels)
	assert.Equal(t, []any{"EU", "Paris"}, memberFilter.QualifyValues)
	assert.Equal(t, query.LevelRef{Dimension: "Geography", Level: "Region"}, memberFilter.Target)

	listFilter := plan.Filters[1]
	assert.Equal(t, query.OperatorIn, listFilter.Operator)
	assert.Equal(t, []any{"EU", "US"}, listFilter.Values)
	assert.Empty(t, listFilter.QualifyLevels)
	assert.Equal(t, query.LevelRef{Dimension: "Geography", Level: "Region"}, listFilter.Target)

	rangeFilter := plan.Filters[2]
	assert.Equal(t, query.OperatorBetween, rangeFilter.Operator)
	assert.Equal(t, []any{10, 20}, rangeFilter.Values)
	assert.Empty(t, rangeFilter.QualifyLevels, "year is not grouped by the plan")
	assert.True(t, rangeFilter.Target.IsZero())
}

func TestCreatePlan_MultiViewFiltersFromHost(t *testing.T) {
	host := testutil.NewTestCrosstab("xtab",
		[]report.LevelRef{testutil.Level("Geography", "Region")},
		[]report.LevelRef{testutil.Level("Time", "Year")},
	)
	host.Rows.Dimensions[0].Levels[0].Filters = []report.FilterCondition{{Expression: regionExpr, Operator: "eq", Value1: "EU"}}
	host.Columns.Dimensions[0].Levels[0].Filters = []report.FilterCondition{{Expression: yearExpr, Operator: "ge", Value1: 2020}}
	host.Measures = []report.MeasureView{{
		Measure: "Sales",
		Filters: []report.FilterCondition{{Expression: salesExpr, Operator: "top-n", Value1: 5}},
	}}

	container := testutil.NewTestContainer("chart",
		testutil.WithHost(host),
		testutil.WithMultiView(),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{regionExpr}}),
		testutil.WithSeries(report.SeriesDefinition{Data: []string{salesExpr}, Grouping: yearExpr}),
		testutil.WithFilter(report.FilterCondition{Expression: salesExpr, Operator: "gt", Value1: 1}),
	)

	plan := buildPlan(t, container, ModeLivePreview)
	require.Len(t, plan.Filters, 3)

	assert.Equal(t, yearExpr, plan.Filters[0].Expression)
	assert.Equal(t, query.LevelRef{Dimension: "Time", Level: "Year"}, plan.Filters[0].Target)
	assert.Equal(t, regionExpr, plan.Filters[1].Expression)
	assert.Equal(t, query.LevelRef{Dimension: "Geography", Level: "Region"}, plan.Filters[1].Target)
	assert.Equal(t, query.OperatorTopN, plan.Filters[2].Operator)
}

func TestDefaultNameAllocator(t *testing.T) {
	taken := map[string]bool{"measure[Sales]": true, "measure[Sales]_1": true}
	isTaken := func(name string) bool { return taken[name] }

	var names DefaultNameAllocator
	assert.Equal(t, "measure[Sales]_2", names.Allocate(salesExpr, isTaken))
	assert.Equal(t, "measure[Units]", names.Allocate(`measure["Units"]`, isTaken))
	assert.Equal(t, "column", names.Allocate(`""`, isTaken))
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeRender, ModeLivePreview} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseMode("batch")
	require.Error(t, err)
}

func TestAdapters(t *testing.T) {
	assert.Equal(t, query.DataTypeDateTime, adaptDataType("date-time"))
	assert.Equal(t, query.DataTypeDouble, adaptDataType("float"))
	assert.Equal(t, query.DataTypeAny, adaptDataType("mystery"))

	assert.Equal(t, query.AggregateAverage, adaptAggregation("average"))
	assert.Equal(t, query.AggregateCountDistinct, adaptAggregation("CountDistinct"))
	assert.Equal(t, "RANK", adaptAggregation("rank"))
	assert.Empty(t, adaptAggregation(""))

	assert.Equal(t, query.OperatorNotIn, adaptOperator("not-in"))
	assert.True(t, adaptOperator("in").IsList())
	assert.False(t, adaptOperator("between").IsList())
	assert.Equal(t, query.Operator("custom"), adaptOperator("custom"))
}
