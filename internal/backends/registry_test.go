package backends

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendRegistry(t *testing.T) {
	registry := NewRegistry()

	t.Run("GetSupportedTypes", func(t *testing.T) {
		types := registry.GetSupportedTypes()
		assert.Contains(t, types, "memory")
		assert.Contains(t, types, "file")
		assert.Contains(t, types, "bolt")
	})

	t.Run("IsSupported", func(t *testing.T) {
		assert.True(t, registry.IsSupported("memory"))
		assert.True(t, registry.IsSupported("file"))
		assert.True(t, registry.IsSupported("bolt"))
		assert.False(t, registry.IsSupported("sqlite"))
		assert.False(t, registry.IsSupported(""))
	})

	t.Run("OpenMemory", func(t *testing.T) {
		store, err := registry.Open("memory", "com.example.test", "")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("OpenFileWithPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		store, err := registry.Open("file", "com.example.test", path)
		require.NoError(t, err)
		fileStore, ok := store.(*FileStore)
		require.True(t, ok)
		assert.Equal(t, path, fileStore.Path())
	})

	t.Run("OpenBoltWithPath", func(t *testing.T) {
		store, err := registry.Open("bolt", "com.example.test", filepath.Join(t.TempDir(), "prefs.db"))
		require.NoError(t, err)
		require.NoError(t, store.Close())
	})

	t.Run("OpenUnsupportedType", func(t *testing.T) {
		_, err := registry.Open("sqlite", "com.example.test", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown property store backend: sqlite")
	})
}
