package cursor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionCityRows() [][]string {
	return [][]string{
		{"EU", "Paris"},
		{"EU", "Rome"},
		{"US", "Austin"},
		{"US", "Boston"},
		{"US", "Denver"},
	}
}

func bounds(t *testing.T, e *Edge, group int) [2]int64 {
	t.Helper()

	dc := e.DimensionCursors()[group]
	start, err := dc.EdgeStart()
	require.NoError(t, err)
	end, err := dc.EdgeEnd()
	require.NoError(t, err)

	return [2]int64{start, end}
}

func TestEdgeDimensionBounds(t *testing.T) {
	e, err := New(regionCityRows())
	require.NoError(t, err)
	require.Len(t, e.DimensionCursors(), 2)

	tests := []struct {
		position int64
		region   [2]int64
		city     [2]int64
	}{
		{position: 0, region: [2]int64{0, 1}, city: [2]int64{0, 0}},
		{position: 1, region: [2]int64{0, 1}, city: [2]int64{1, 1}},
		{position: 3, region: [2]int64{2, 4}, city: [2]int64{3, 3}},
		{position: 4, region: [2]int64{2, 4}, city: [2]int64{4, 4}},
	}

	for _, tt := range tests {
		require.NoError(t, e.SetPosition(tt.position))
		assert.Equal(t, tt.region, bounds(t, e, 0), "region at %d", tt.position)
		assert.Equal(t, tt.city, bounds(t, e, 1), "city at %d", tt.position)
	}
}

func TestEdgeSharedLeafNamesUnderDifferentParents(t *testing.T) {
	e, err := New([][]string{{"EU", "Springfield"}, {"US", "Springfield"}})
	require.NoError(t, err)

	assert.Equal(t, [2]int64{0, 0}, bounds(t, e, 1))
}

func TestEdgeDummyGroup(t *testing.T) {
	e, err := New([][]string{{"EU", ""}, {"US", "Austin"}})
	require.NoError(t, err)

	assert.Equal(t, [2]int64{-1, -1}, bounds(t, e, 1))

	require.NoError(t, e.SetPosition(1))
	assert.Equal(t, [2]int64{1, 1}, bounds(t, e, 1))
}

func TestEdgeNavigation(t *testing.T) {
	e, err := New(regionCityRows())
	require.NoError(t, err)
	assert.Equal(t, 5, e.Len())

	for i := 1; i < e.Len(); i++ {
		ok, err := e.Next()
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := e.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	pos, err := e.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)
	assert.Equal(t, []string{"US", "Denver"}, e.Row(pos))
	assert.Nil(t, e.Row(5))

	require.ErrorIs(t, e.SetPosition(5), ErrPositionOutOfRange)
	require.ErrorIs(t, e.SetPosition(-1), ErrPositionOutOfRange)
}

func TestNewRejectsRaggedRows(t *testing.T) {
	_, err := New([][]string{{"EU", "Paris"}, {"US"}})
	require.ErrorIs(t, err, ErrRaggedRows)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows:\n  - [EU, Paris]\n  - [EU, Rome]\n"), 0o600))

	e, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, [2]int64{0, 1}, bounds(t, e, 0))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
