package prefstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iscsikit/iscsiconf/internal/backends"
	"github.com/iscsikit/iscsiconf/internal/vaults"
	"github.com/iscsikit/iscsiconf/pkg/iscsi"
)

func TestDiscoveryMerge(t *testing.T) {
	store := newTestStore(t, backends.NewMemoryStore(), vaults.NewMemoryVault())

	r1 := iscsi.NewDiscoveryRecord()
	r1.SetPortals("iqn.2020-01.com.example:a", []iscsi.Portal{{Address: "10.0.0.1:3260"}})
	r1.SetPortals("iqn.2020-01.com.example:shared", []iscsi.Portal{{Address: "10.0.0.2:3260"}})

	r2 := iscsi.NewDiscoveryRecord()
	r2.SetPortals("iqn.2020-01.com.example:b", []iscsi.Portal{{Address: "10.0.0.3:3260"}})
	r2.SetPortals("iqn.2020-01.com.example:shared", []iscsi.Portal{{Address: "10.0.0.9:3260"}})

	store.AddDiscoveryRecord(r1)
	store.AddDiscoveryRecord(r2)

	merged := store.DiscoveryRecord()
	require.NotNil(t, merged)

	// Union of keys, right-biased on the shared one.
	assert.Equal(t, []string{
		"iqn.2020-01.com.example:a",
		"iqn.2020-01.com.example:b",
		"iqn.2020-01.com.example:shared",
	}, merged.Targets())

	shared := merged.Portals("iqn.2020-01.com.example:shared")
	require.Len(t, shared, 1)
	assert.Equal(t, "10.0.0.9:3260", shared[0].Address)
}

func TestDiscoveryEmptyRecordIsNoOp(t *testing.T) {
	store := newTestStore(t, backends.NewMemoryStore(), vaults.NewMemoryVault())

	store.AddDiscoveryRecord(nil)
	store.AddDiscoveryRecord(iscsi.NewDiscoveryRecord())

	assert.Nil(t, store.DiscoveryRecord())
	assert.False(t, store.discoveryDirty)
}

func TestClearDiscoveryRecord(t *testing.T) {
	props := backends.NewMemoryStore()
	store := newTestStore(t, props, vaults.NewMemoryVault())

	record := iscsi.NewDiscoveryRecord()
	record.SetPortals(testTargetIQN, []iscsi.Portal{{Address: testPortalAddr}})
	store.AddDiscoveryRecord(record)
	require.NoError(t, store.Synchronize())

	store.ClearDiscoveryRecord()
	assert.Nil(t, store.DiscoveryRecord())
	assert.True(t, store.discoveryDirty)

	// The clearing must be flushed: a fresh cache over the same backing
	// store sees no discovery data.
	require.NoError(t, store.Synchronize())
	fresh := newTestStore(t, props, vaults.NewMemoryVault())
	require.NoError(t, fresh.Synchronize())
	assert.Nil(t, fresh.DiscoveryRecord())
}
