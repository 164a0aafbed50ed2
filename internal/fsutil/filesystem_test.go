package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_ReadWrite(t *testing.T) {
	m := NewMemoryFileSystem()

	data := []byte(`{"name":"human"}`)
	require.NoError(t, m.WriteFile("chars/human.json", data, 0644))

	// mutating the caller's slice must not change stored contents
	data[0] = 'X'

	got, err := m.ReadFile("chars/./human.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"human"}`, string(got))

	info, err := m.Stat("chars/human.json")
	require.NoError(t, err)
	assert.Equal(t, int64(16), info.Size())
	assert.False(t, info.IsDir())
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	m := NewMemoryFileSystem()

	_, err := m.ReadFile("nope.json")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.Stat("nope.json")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, m.Exists("nope.json"))
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.MkdirAll("plots/run-1/left", 0755))

	assert.True(t, m.Exists("plots"))
	assert.True(t, m.Exists("plots/run-1"))
	assert.True(t, m.Exists("plots/run-1/left"))

	info, err := m.Stat("plots/run-1")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOSFileSystem(t *testing.T) {
	var fsys FileSystem = OSFileSystem{}
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b.txt")

	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fsys.WriteFile(path, []byte("hello"), 0644))
	assert.True(t, fsys.Exists(path))

	got, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}
