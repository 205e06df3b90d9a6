package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "")

	_, ok, err := s.Get("main-drawing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put("main-drawing", []byte(`{"elements":[]}`)))
	data, ok, err := s.Get("main-drawing")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"elements":[]}`, string(data))

	_, err = os.Stat(filepath.Join(dir, DefaultNamespace, "main-drawing"))
	assert.NoError(t, err, "record lives under the namespace directory")

	require.NoError(t, s.Delete("main-drawing"))
	_, ok, err = s.Get("main-drawing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, s.Delete("main-drawing"), "deleting twice is fine")
}

func TestStore_Keys(t *testing.T) {
	s := New(t.TempDir(), "ns")
	require.NoError(t, s.Put("b", []byte("2")))
	require.NoError(t, s.Put("a", []byte("1")))

	assert.Equal(t, []string{"a", "b"}, s.Keys(context.Background()))
}

func TestStore_ReopenReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, New(dir, "").Put("k", []byte("v")))

	data, ok, err := New(dir, "").Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(data))
}

func TestStore_EmptyKey(t *testing.T) {
	s := New(t.TempDir(), "")
	_, _, err := s.Get("")
	assert.Error(t, err)
	assert.Error(t, s.Put("", nil))
}
