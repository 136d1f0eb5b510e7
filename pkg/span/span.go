// Package span resolves crosstab grouping positions and merge spans from an executed edge cursor
package span

import "errors"

// ErrDimensionCursorMissing is returned when the cursor has fewer dimension cursors than groups
var ErrDimensionCursorMissing = errors.New("edge cursor has no dimension cursor for group")

// EdgeGroup is a flattened (dimension, level) grouping position on one edge
type EdgeGroup struct {
	DimensionIndex int `json:"dimensionIndex"`
	LevelIndex     int `json:"levelIndex"`
}

// DimensionCursor reports the edge rows covered by the current member of one grouping level
type DimensionCursor interface {
	EdgeStart() (int64, error)
	EdgeEnd() (int64, error)
}

// EdgeCursor is a positioned cursor over the rows of one result edge. DimensionCursors is ordered
// like the edge's groups.
type EdgeCursor interface {
	Position() (int64, error)
	SetPosition(position int64) error
	Next() (bool, error)
	DimensionCursors() []DimensionCursor
}

// HeaderLookup reports whether a grouping level has an aggregation header configured
type HeaderLookup interface {
	HasAggregationHeader(dimensionIndex, levelIndex int) bool
}

// GroupIndex returns the index of the group at (dimensionIndex, levelIndex). A negative level
// index selects the deepest group of the dimension. Returns -1 when there is no such group.
func GroupIndex(groups []EdgeGroup, dimensionIndex, levelIndex int) int {
	if levelIndex < 0 {
		for i := len(groups) - 1; i >= 0; i-- {
			if groups[i].DimensionIndex == dimensionIndex {
				return i
			}
		}

		return -1
	}

	return indexOf(groups, dimensionIndex, levelIndex)
}

func indexOf(groups []EdgeGroup, dimensionIndex, levelIndex int) int {
	for i, g := range groups {
		if g.DimensionIndex == dimensionIndex && g.LevelIndex == levelIndex {
			return i
		}
	}

	return -1
}

// GroupSpan returns the number of groups after the matched group, never less than one
func GroupSpan(groups []EdgeGroup, dimensionIndex, levelIndex int) int {
	idx := indexOf(groups, dimensionIndex, levelIndex)
	if idx == -1 {
		return 1
	}

	return max(1, len(groups)-idx-1)
}

// IsDummyGroup reports whether the cursor sits on a collapsed group, marked by start and end -1
func IsDummyGroup(dc DimensionCursor) (bool, error) {
	start, err := dc.EdgeStart()
	if err != nil {
		return false, err
	}

	end, err := dc.EdgeEnd()
	if err != nil {
		return false, err
	}

	return start == -1 && end == -1, nil
}

// IsLeafGroup reports whether every group deeper than groupIndex is a dummy group
func IsLeafGroup(cursors []DimensionCursor, groupIndex int) (bool, error) {
	for i := groupIndex + 1; i < len(cursors); i++ {
		dummy, err := IsDummyGroup(cursors[i])
		if err != nil {
			return false, err
		}
		if !dummy {
			return false, nil
		}
	}

	return true, nil
}

// PreviousGroup returns the group before (dimensionIndex, levelIndex)
func PreviousGroup(groups []EdgeGroup, dimensionIndex, levelIndex int) (EdgeGroup, bool) {
	idx := indexOf(groups, dimensionIndex, levelIndex)
	if idx <= 0 {
		return EdgeGroup{}, false
	}

	return groups[idx-1], true
}

// NextGroup returns the group after (dimensionIndex, levelIndex)
func NextGroup(groups []EdgeGroup, dimensionIndex, levelIndex int) (EdgeGroup, bool) {
	idx := NextGroupIndex(groups, dimensionIndex, levelIndex)
	if idx == -1 {
		return EdgeGroup{}, false
	}

	return groups[idx], true
}

// NextGroupIndex returns the index of the group after (dimensionIndex, levelIndex), or -1
func NextGroupIndex(groups []EdgeGroup, dimensionIndex, levelIndex int) int {
	idx := indexOf(groups, dimensionIndex, levelIndex)
	if idx == -1 || idx >= len(groups)-1 {
		return -1
	}

	return idx + 1
}

// IsFirstGroup reports whether (dimensionIndex, levelIndex) is the first group
func IsFirstGroup(groups []EdgeGroup, dimensionIndex, levelIndex int) bool {
	if len(groups) == 0 {
		return false
	}

	return groups[0].DimensionIndex == dimensionIndex && groups[0].LevelIndex == levelIndex
}
