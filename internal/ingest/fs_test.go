package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOFS(t *testing.T) {
	fsys := IOFS{FS: fstest.MapFS{
		"data/a/one.txt": {Data: []byte("1")},
		"data/b":         {},
	}}

	info, err := fsys.Stat("/data")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := fsys.ReadDir("/data")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name())

	top, err := fsys.ReadDir("/")
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "data", top[0].Name())

	_, err = fsys.Stat("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSFS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o644))

	info, err := OSFS{}.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := OSFS{}.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f.txt", entries[0].Name())
}
