package fs

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdirAll(t *testing.T) {
	dir := t.TempDir()
	fs := New()
	err := fs.MkdirAll(path.Join(dir, "foo/bar"))
	assert.NoError(t, err)
}

func TestDirExists(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		dir := t.TempDir()
		fs := New()
		result, err := fs.DirExists(dir)
		assert.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("does not exist", func(t *testing.T) {
		dir := t.TempDir()
		fs := New()
		result, err := fs.DirExists(dir + "foo")
		assert.NoError(t, err)
		assert.False(t, result)
	})
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := path.Join(dir, "project.json")
	require.NoError(t, os.WriteFile(filePath, []byte("{}"), 0644))
	fs := New()

	t.Run("exists", func(t *testing.T) {
		result, err := fs.FileExists(filePath)
		assert.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		result, err := fs.FileExists(dir)
		assert.NoError(t, err)
		assert.False(t, result)
	})

	t.Run("does not exist", func(t *testing.T) {
		result, err := fs.FileExists(filePath + ".missing")
		assert.NoError(t, err)
		assert.False(t, result)
	})
}

func TestReadOperations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(path.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(path.Join(dir, "global.json"), []byte(`{"projects":["src"]}`), 0644))
	fs := New()

	entries, err := fs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	data, err := fs.ReadFile(path.Join(dir, "global.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"projects":["src"]}`, string(data))
}

func TestTempFileAndRemove(t *testing.T) {
	dir := t.TempDir()
	fs := New()

	f, err := fs.TempFile(dir, "restore")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.NoError(t, fs.Remove(f.Name()))

	_, err = os.Stat(f.Name())
	assert.True(t, os.IsNotExist(err))
}
