package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestWalkFindsContainers(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.tsr"))
	touch(t, filepath.Join(dir, "a.tsr"))
	touch(t, filepath.Join(dir, "nested", "c.tsr"))
	touch(t, filepath.Join(dir, "notes.txt"))

	files, err := NewWalker(nil, nil).Walk(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.tsr"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.tsr"), files[1].Path)
	assert.Equal(t, filepath.Join(dir, "nested", "c.tsr"), files[2].Path)
}

func TestWalkExcludes(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "keep.tsr"))
	touch(t, filepath.Join(dir, "skip", "drop.tsr"))

	files, err := NewWalker(nil, []string{"skip/**"}).Walk(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "keep.tsr"), files[0].Path)
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, filepath.Join(dir, "a.tsr"))

	paths, err := NewWalker(nil, nil).Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func TestResolveDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.tsr"))
	touch(t, filepath.Join(dir, "a.tsr"))

	paths, err := NewWalker(nil, nil).Resolve(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.tsr"), paths[0])
}

func TestResolveGlob(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "run1.tsr"))
	touch(t, filepath.Join(dir, "run2.tsr"))
	touch(t, filepath.Join(dir, "run.json"))

	paths, err := NewWalker(nil, nil).Resolve(filepath.Join(dir, "run*"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "run1.tsr"),
		filepath.Join(dir, "run2.tsr"),
	}, paths)
}

func TestResolveLiteralMissingPath(t *testing.T) {
	paths, err := NewWalker(nil, nil).Resolve("/no/such/file.tsr")
	require.NoError(t, err)
	assert.Equal(t, []string{"/no/such/file.tsr"}, paths)
}
