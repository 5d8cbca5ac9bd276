package backends

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// testTree exercises nested trees and every leaf kind the codecs produce.
func testTree() propstore.Tree {
	return propstore.Tree{
		"Target Data": propstore.Tree{
			"Name":  "iqn.2020-01.com.example:disk1",
			"Alias": "disk1",
		},
		"Session Configuration": propstore.Tree{
			"Max Connections": 2,
		},
		"Authentication": "CHAP",
		"Enabled":        true,
	}
}

// runStoreContract checks the behavior every propstore.Store must share.
func runStoreContract(t *testing.T, open func(t *testing.T) propstore.Store) {
	t.Run("AbsentKeyIsNilNotError", func(t *testing.T) {
		store := open(t)
		tree, err := store.CopyValue("never written")
		require.NoError(t, err)
		assert.Nil(t, tree)
	})

	t.Run("SetThenCopyRoundTrip", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.SetValue("Target Nodes", testTree()))
		require.NoError(t, store.SynchronizeAll())

		got, err := store.CopyValue("Target Nodes")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "CHAP", propstore.String(got, "Authentication"))
		assert.True(t, propstore.Bool(got, "Enabled"))
		assert.Equal(t, "disk1", propstore.String(propstore.Subtree(got, "Target Data"), "Alias"))
		assert.Equal(t, 2, propstore.Int(propstore.Subtree(got, "Session Configuration"), "Max Connections"))
	})

	t.Run("CopyIsIsolatedFromCache", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.SetValue("k", testTree()))
		require.NoError(t, store.SynchronizeAll())

		first, err := store.CopyValue("k")
		require.NoError(t, err)
		first["Authentication"] = "mutated"

		second, err := store.CopyValue("k")
		require.NoError(t, err)
		assert.Equal(t, "CHAP", propstore.String(second, "Authentication"))
	})

	t.Run("OverwriteWins", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.SetValue("k", propstore.Tree{"v": "old"}))
		require.NoError(t, store.SetValue("k", propstore.Tree{"v": "new"}))
		require.NoError(t, store.SynchronizeAll())

		got, err := store.CopyValue("k")
		require.NoError(t, err)
		assert.Equal(t, "new", propstore.String(got, "v"))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) propstore.Store {
		return NewMemoryStore()
	})
}

func TestFileStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) propstore.Store {
		return NewFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	})

	t.Run("PersistsAcrossInstances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")

		first := NewFileStore(path)
		require.NoError(t, first.SetValue("Initiator Node", propstore.Tree{"Name": "iqn.x", "Alias": ""}))
		require.NoError(t, first.SynchronizeAll())
		require.NoError(t, first.Close())

		second := NewFileStore(path)
		got, err := second.CopyValue("Initiator Node")
		require.NoError(t, err)
		assert.Equal(t, "iqn.x", propstore.String(got, "Name"))
	})

	t.Run("StagedWritesInvisibleUntilSynchronize", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")

		writer := NewFileStore(path)
		require.NoError(t, writer.SetValue("k", propstore.Tree{"v": "pending"}))

		other := NewFileStore(path)
		got, err := other.CopyValue("k")
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, writer.SynchronizeAll())

		// A store instantiated after the commit sees the value.
		late := NewFileStore(path)
		got, err = late.CopyValue("k")
		require.NoError(t, err)
		assert.Equal(t, "pending", propstore.String(got, "v"))
	})

	t.Run("MalformedFileSurfacesError", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

		store := NewFileStore(path)
		_, err := store.CopyValue("k")
		require.Error(t, err)
		var storeErr propstore.StoreError
		assert.ErrorAs(t, err, &storeErr)
	})
}

func TestBoltStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) propstore.Store {
		store, err := NewBoltStore(filepath.Join(t.TempDir(), "prefs.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store
	})

	t.Run("PersistsAcrossInstances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prefs.db")

		first, err := NewBoltStore(path)
		require.NoError(t, err)
		require.NoError(t, first.SetValue("Target Nodes", testTree()))
		require.NoError(t, first.SynchronizeAll())
		require.NoError(t, first.Close())

		second, err := NewBoltStore(path)
		require.NoError(t, err)
		defer second.Close()

		got, err := second.CopyValue("Target Nodes")
		require.NoError(t, err)
		assert.Equal(t, "CHAP", propstore.String(got, "Authentication"))
		// JSON decoding yields float64 leaves; the numeric helper absorbs
		// the difference.
		assert.Equal(t, 2, propstore.Int(propstore.Subtree(got, "Session Configuration"), "Max Connections"))
	})
}
