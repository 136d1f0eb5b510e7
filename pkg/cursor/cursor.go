// Package cursor provides an in-memory edge cursor over grouped result rows
package cursor

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethpandaops/cubeplan/pkg/span"
	"gopkg.in/yaml.v3"
)

var (
	// ErrPositionOutOfRange is returned when moving the cursor outside its rows
	ErrPositionOutOfRange = errors.New("cursor position out of range")
	// ErrRaggedRows is returned when rows do not all have one member per group
	ErrRaggedRows = errors.New("rows have differing member counts")
)

// Edge is an edge cursor over rows of members, one member per group, root first. An empty member
// marks a dummy group for that row.
type Edge struct {
	rows       [][]string
	position   int64
	dimensions []span.DimensionCursor
}

// New creates a cursor positioned on the first row
func New(rows [][]string) (*Edge, error) {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}

	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d members, expected %d", ErrRaggedRows, i, len(row), width)
		}
	}

	e := &Edge{rows: rows}
	e.dimensions = make([]span.DimensionCursor, width)
	for i := 0; i < width; i++ {
		e.dimensions[i] = &dimension{edge: e, group: i}
	}

	return e, nil
}

// Len returns the number of rows
func (e *Edge) Len() int {
	return len(e.rows)
}

// Row returns the members of a row
func (e *Edge) Row(position int64) []string {
	if position < 0 || position >= int64(len(e.rows)) {
		return nil
	}

	return e.rows[position]
}

// Position implements span.EdgeCursor
func (e *Edge) Position() (int64, error) {
	return e.position, nil
}

// SetPosition implements span.EdgeCursor
func (e *Edge) SetPosition(position int64) error {
	if position < 0 || position >= int64(len(e.rows)) {
		return fmt.Errorf("%w: %d of %d rows", ErrPositionOutOfRange, position, len(e.rows))
	}
	e.position = position

	return nil
}

// Next implements span.EdgeCursor. It reports false and stays on the last row at the end.
func (e *Edge) Next() (bool, error) {
	if e.position+1 >= int64(len(e.rows)) {
		return false, nil
	}
	e.position++

	return true, nil
}

// DimensionCursors implements span.EdgeCursor
func (e *Edge) DimensionCursors() []span.DimensionCursor {
	return e.dimensions
}

// samePrefix reports whether two rows share their members up to and including group
func (e *Edge) samePrefix(a, b int64, group int) bool {
	for i := 0; i <= group; i++ {
		if e.rows[a][i] != e.rows[b][i] {
			return false
		}
	}

	return true
}

// dimension reports the rows sharing the current row's member at one group
type dimension struct {
	edge  *Edge
	group int
}

func (d *dimension) bounds() (start, end int64) {
	e := d.edge
	if len(e.rows) == 0 || e.rows[e.position][d.group] == "" {
		return -1, -1
	}

	start, end = e.position, e.position
	for start > 0 && e.samePrefix(start-1, e.position, d.group) {
		start--
	}
	for end < int64(len(e.rows))-1 && e.samePrefix(end+1, e.position, d.group) {
		end++
	}

	return start, end
}

func (d *dimension) EdgeStart() (int64, error) {
	start, _ := d.bounds()
	return start, nil
}

func (d *dimension) EdgeEnd() (int64, error) {
	_, end := d.bounds()
	return end, nil
}

type rowsFile struct {
	Rows [][]string `yaml:"rows"`
}

// Load reads a YAML file with a rows list and creates a cursor over it
func Load(path string) (*Edge, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f rowsFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return New(f.Rows)
}

var (
	_ span.EdgeCursor      = (*Edge)(nil)
	_ span.DimensionCursor = (*dimension)(nil)
)
