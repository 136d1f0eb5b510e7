package span

import "fmt"

// ComputeRowSpan returns how many rows the header of the group at (dimensionIndex, levelIndex)
// covers from the cursor's current row: the rows of the group plus one row for every subtotal
// header that closes inside it. Unmatched and leaf groups span one row, and so does a failed
// computation, alongside its error. The cursor is always left at the position it had on entry.
func ComputeRowSpan(groups []EdgeGroup, dimensionIndex, levelIndex int, cursor EdgeCursor, headers HeaderLookup) (int, error) {
	span, _, err := computeRowSpan(groups, dimensionIndex, levelIndex, cursor, headers)
	return span, err
}

// computeRowSpan also returns the number of cursor rows walked
func computeRowSpan(groups []EdgeGroup, dimensionIndex, levelIndex int, cursor EdgeCursor, headers HeaderLookup) (span, walked int, err error) {
	groupIndex := indexOf(groups, dimensionIndex, levelIndex)
	if groupIndex == -1 {
		return 1, 0, nil
	}

	cursors := cursor.DimensionCursors()
	if len(cursors) < len(groups) {
		return 1, 0, fmt.Errorf("%w: %d groups, %d dimension cursors", ErrDimensionCursorMissing, len(groups), len(cursors))
	}

	leaf, err := IsLeafGroup(cursors, groupIndex)
	if err != nil {
		return 1, 0, err
	}
	if leaf {
		return 1, 0, nil
	}

	start, err := cursor.Position()
	if err != nil {
		return 1, 0, err
	}

	defer func() {
		if restoreErr := cursor.SetPosition(start); restoreErr != nil && err == nil {
			span, err = 1, restoreErr
		}
	}()

	end, err := cursors[groupIndex].EdgeEnd()
	if err != nil {
		return 1, 0, err
	}

	for position := start; position <= end; {
		span++
		walked++

		extra, err := closingHeaders(groups, groupIndex, cursors, headers, position)
		if err != nil {
			return 1, walked, err
		}
		span += extra

		ok, err := cursor.Next()
		if err != nil {
			return 1, walked, err
		}
		if !ok {
			break
		}

		if position, err = cursor.Position(); err != nil {
			return 1, walked, err
		}
	}

	return span, walked, nil
}

// closingHeaders counts the subtotal headers of groups that end at position, scanning from the
// group above the innermost one up to groupIndex. Groups nest, so the first group still open
// stops the scan.
func closingHeaders(groups []EdgeGroup, groupIndex int, cursors []DimensionCursor, headers HeaderLookup, position int64) (int, error) {
	extra := 0

	for i := len(groups) - 2; i >= groupIndex; i-- {
		dummy, err := IsDummyGroup(cursors[i])
		if err != nil {
			return 0, err
		}
		if dummy {
			continue
		}

		end, err := cursors[i].EdgeEnd()
		if err != nil {
			return 0, err
		}
		if position != end {
			break
		}

		if headers != nil && headers.HasAggregationHeader(groups[i].DimensionIndex, groups[i].LevelIndex) {
			extra++
		}
	}

	return extra, nil
}
