package memtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewColumns(t *testing.T) {
	cols, err := NewColumns("Name", "Born", "Count")
	require.NoError(t, err)
	require.Equal(t, 3, cols.Len())
	require.Equal(t, []string{"Name", "Born", "Count"}, cols.Names())
	require.Equal(t, "Born", cols.Name(1))

	pos, ok := cols.Position("Count")
	require.True(t, ok)
	require.Equal(t, 2, pos)
	_, ok = cols.Position("Missing")
	require.False(t, ok)

	require.True(t, cols.Contains("Name"))
	require.False(t, cols.Contains("name"), "lookup is case sensitive")

	names := cols.Names()
	names[0] = "changed"
	require.Equal(t, "Name", cols.Name(0), "Names returns a copy")
}

func TestNewColumns_empty(t *testing.T) {
	cols, err := NewColumns()
	require.NoError(t, err)
	require.Equal(t, 0, cols.Len())
	require.Empty(t, cols.Names())
}

func TestNewColumns_duplicate(t *testing.T) {
	_, err := NewColumns("A", "B", "A")
	require.ErrorIs(t, err, ErrDuplicateColumn)
	require.ErrorContains(t, err, `"A"`)
}
