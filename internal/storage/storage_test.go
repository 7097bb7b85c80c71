package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	f := NewFile(path)

	_, ok, err := f.Get("token")
	require.NoError(t, err)
	assert.False(t, ok, "missing file should read as empty")

	require.NoError(t, f.SetMany(map[string]string{"token": "abc", "user": `{"id":1}`}))

	v, ok, err := f.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second handle on the same path sees the persisted values.
	reopened := NewFile(path)
	v, ok, err = reopened.Get("user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, v)
}

func TestFileRemoveLastKeyDeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	f := NewFile(path)
	require.NoError(t, f.SetMany(map[string]string{"token": "abc", "user": "{}"}))

	require.NoError(t, f.Remove("token"))
	_, ok, err := f.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = f.Get("user")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.Remove("user"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should be gone after removing every key")
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	f := NewFile(path)

	_, _, err := f.Get("token")
	require.Error(t, err)

	// Writing over a corrupt file replaces it.
	require.NoError(t, f.SetMany(map[string]string{"token": "fresh"}))
	v, ok, err := f.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestFileClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	f := NewFile(path)
	require.NoError(t, f.Clear(), "clearing a missing file is not an error")
	require.NoError(t, f.SetMany(map[string]string{"token": "abc"}))
	require.NoError(t, f.Clear())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMemory(t *testing.T) {
	m := NewMemory(map[string]string{"token": "abc"})
	tok, err := Token(m)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, m.SetMany(map[string]string{"user": "{}"}))
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Remove("token", "user"))
	assert.Equal(t, 0, m.Len())

	var zero Memory
	require.NoError(t, zero.SetMany(map[string]string{"k": "v"}))
	require.NoError(t, zero.Clear())
	assert.Equal(t, 0, zero.Len())
}
