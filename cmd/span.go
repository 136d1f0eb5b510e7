package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ethpandaops/cubeplan/pkg/cursor"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/ethpandaops/cubeplan/pkg/span"
	"github.com/spf13/cobra"
)

var (
	// ErrUnknownCrosstab is returned when a named crosstab is not in the report
	ErrUnknownCrosstab = errors.New("crosstab not found in report")
	// ErrRowsRequired is returned when the span command is run without a rows file
	ErrRowsRequired = errors.New("--rows is required")
	// ErrRowWidthMismatch is returned when the rows do not carry one member per axis level
	ErrRowWidthMismatch = errors.New("rows do not match the axis levels")
)

// spanCmd lays out the header cells of a crosstab axis
//
//nolint:gochecknoglobals // Cobra commands are typically global
var spanCmd = &cobra.Command{
	Use:   "span <report> <crosstab>",
	Short: "Show header row spans of a crosstab axis",
	Long: `Walk a rows file with one member per axis level and print, for each row, the header cells
that start on it with their row spans, including subtotal rows of aggregation headers.`,
	Args: cobra.ExactArgs(2),
	RunE: runSpan,
}

func init() {
	rootCmd.AddCommand(spanCmd)

	spanCmd.Flags().String("rows", "", "YAML file with the axis member rows")
	spanCmd.Flags().String("axis", "rows", "crosstab axis (rows, columns)")
}

func runSpan(cmd *cobra.Command, args []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	rowsPath, _ := cmd.Flags().GetString("rows")
	if rowsPath == "" {
		return ErrRowsRequired
	}

	axisType := report.RowAxis
	if axisFlag, _ := cmd.Flags().GetString("axis"); axisFlag == "columns" {
		axisType = report.ColumnAxis
	}

	file, err := report.LoadFile(args[0])
	if err != nil {
		return err
	}

	x, ok := file.Crosstab(args[1])
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCrosstab, args[1])
	}

	edge, err := cursor.Load(rowsPath)
	if err != nil {
		return err
	}

	axis := x.Axis(axisType)
	groups := span.Groups(axis)
	if len(edge.DimensionCursors()) != len(groups) && edge.Len() > 0 {
		return fmt.Errorf("%w: %d members per row, %d levels on %s", ErrRowWidthMismatch,
			len(edge.DimensionCursors()), len(groups), axisType)
	}

	resolver := span.NewResolver(logger, groups, axis)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	header := []string{"ROW"}
	for _, g := range groups {
		lv, _ := axis.LevelView(g.DimensionIndex, g.LevelIndex)
		header = append(header, strings.ToUpper(lv.Level))
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))

	for pos := int64(0); pos < int64(edge.Len()); pos++ {
		if err := edge.SetPosition(pos); err != nil {
			return err
		}

		cells := []string{strconv.FormatInt(pos, 10)}
		for i, g := range groups {
			cell, cellErr := headerCell(resolver, edge, i, g, pos)
			if cellErr != nil {
				return cellErr
			}
			cells = append(cells, cell)
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()

	// Subtotal content per aggregation header
	for _, g := range groups {
		if !axis.HasAggregationHeader(g.DimensionIndex, g.LevelIndex) {
			continue
		}
		lv, _ := axis.LevelView(g.DimensionIndex, g.LevelIndex)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "subtotal %s: content=%t\n",
			lv.Level, span.HasTotalContent(x, axisType, g.DimensionIndex, g.LevelIndex, -1))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "grand total: content=%t\n", span.HasTotalContent(x, axisType, -1, -1, -1))

	return nil
}

// headerCell prints the member and row span of a group when its header starts at pos
func headerCell(resolver *span.Resolver, edge *cursor.Edge, groupIndex int, g span.EdgeGroup, pos int64) (string, error) {
	start, err := edge.DimensionCursors()[groupIndex].EdgeStart()
	if err != nil {
		return "", err
	}

	switch {
	case start == -1:
		return "-", nil
	case start != pos:
		return "", nil
	}

	rowSpan, err := resolver.RowSpan(edge, g.DimensionIndex, g.LevelIndex)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s (%d)", edge.Row(pos)[groupIndex], rowSpan), nil
}
