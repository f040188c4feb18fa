package fs

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp")
	fs := New()
	dir, err := fs.UserCacheDir()
	assert.NoError(t, err)
	assert.NotEmpty(t, dir)
}

func TestMkdirAll(t *testing.T) {
	dir := t.TempDir()
	fs := New()
	require.NoError(t, fs.MkdirAll(path.Join(dir, "foo/bar")))

	exists, err := fs.DirExists(path.Join(dir, "foo/bar"))
	assert.NoError(t, err)
	assert.True(t, exists)
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

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "active-class.yaml")
	fs := New()

	exists, err := fs.FileExists(file)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, fs.WriteFile(file, []byte("classCode: ab12\n")))
	exists, err = fs.FileExists(file)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := fs.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "classCode: ab12\n", string(data))

	exists, err = fs.FileExists(dir)
	require.NoError(t, err)
	assert.False(t, exists, "directories are not files")

	require.NoError(t, fs.Remove(file))
	require.NoError(t, fs.Remove(file), "removing a missing file is not an error")
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}
