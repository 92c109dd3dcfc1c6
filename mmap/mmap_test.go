package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	content := []byte("hello mapped world")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, len(content), m.Size())
	require.Equal(t, content, m.Data())

	require.NoError(t, m.AdviseSequential())
	require.NoError(t, m.AdviseWillNeed())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestOpen_emptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 0, m.Size())
	require.Empty(t, m.Data())

	// Advice is a no-op without mapped data
	require.NoError(t, m.AdviseSequential())
	require.NoError(t, m.AdviseWillNeed())

	require.NoError(t, m.Close())
}

func TestOpen_missingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}
