package iscsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

func TestTargetCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		target := &Target{IQN: "iqn.2020-01.com.example:disk1", Alias: "disk1"}
		assert.Equal(t, target, TargetFromDict(target.Dict()))
	})

	t.Run("NilTree", func(t *testing.T) {
		assert.Nil(t, TargetFromDict(nil))
		var target *Target
		assert.Nil(t, target.Dict())
	})

	t.Run("MissingLeavesDecodeToZero", func(t *testing.T) {
		target := TargetFromDict(propstore.Tree{"Name": "iqn.x"})
		require.NotNil(t, target)
		assert.Equal(t, "iqn.x", target.IQN)
		assert.Equal(t, "", target.Alias)
	})
}

func TestPortalCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		portal := &Portal{Address: "10.0.0.5:3260", Port: "3260", HostInterface: "en0"}
		assert.Equal(t, portal, PortalFromDict(portal.Dict()))
	})

	t.Run("DefaultPortApplied", func(t *testing.T) {
		portal := PortalFromDict((&Portal{Address: "10.0.0.5"}).Dict())
		require.NotNil(t, portal)
		assert.Equal(t, DefaultPort, portal.Port)
	})
}

func TestSessionConfigCodec(t *testing.T) {
	cfg := &SessionConfig{MaxConnections: 4, TargetPortalGroupTag: 2, TargetSessionID: 99}
	assert.Equal(t, cfg, SessionConfigFromDict(cfg.Dict()))
	assert.Nil(t, SessionConfigFromDict(nil))

	t.Run("NumericLeafForms", func(t *testing.T) {
		// JSON-sourced trees carry float64 leaves, YAML-sourced ones int.
		decoded := SessionConfigFromDict(propstore.Tree{
			"Max Connections":         float64(4),
			"Target Portal Group Tag": int64(2),
			"Target Session ID":       99,
		})
		require.NotNil(t, decoded)
		assert.Equal(t, cfg, decoded)
	})
}

func TestConnectionConfigCodec(t *testing.T) {
	cfg := &ConnectionConfig{UseHeaderDigest: true}
	assert.Equal(t, cfg, ConnectionConfigFromDict(cfg.Dict()))
	assert.Nil(t, ConnectionConfigFromDict(nil))
}

func TestAuthVariants(t *testing.T) {
	assert.Equal(t, AuthMethodNone, AuthNone().Method)
	assert.Equal(t, Auth{Method: AuthMethodCHAP, User: "u", Secret: "s"}, AuthCHAP("u", "s"))

	t.Run("OnlyLiteralCHAPCounts", func(t *testing.T) {
		assert.True(t, AuthMethodCHAP.IsCHAP())
		assert.False(t, AuthMethodNone.IsCHAP())
		assert.False(t, AuthMethod("").IsCHAP())
		assert.False(t, AuthMethod("chap").IsCHAP())
	})
}

func TestDiscoveryRecord(t *testing.T) {
	t.Run("PortalsRoundTrip", func(t *testing.T) {
		record := NewDiscoveryRecord()
		record.SetPortals("iqn.2020-01.com.example:t1", []Portal{
			{Address: "10.0.0.5:3260", Port: "3260"},
			{Address: "10.0.0.6:3260", Port: "3260"},
		})

		decoded := DiscoveryRecordFromDict(record.Dict())
		require.NotNil(t, decoded)
		assert.Equal(t, []string{"iqn.2020-01.com.example:t1"}, decoded.Targets())

		portals := decoded.Portals("iqn.2020-01.com.example:t1")
		require.Len(t, portals, 2)
		assert.Equal(t, "10.0.0.5:3260", portals[0].Address)
	})

	t.Run("EmptyRecordEncodesNil", func(t *testing.T) {
		assert.Nil(t, NewDiscoveryRecord().Dict())
		var record *DiscoveryRecord
		assert.Nil(t, record.Dict())
	})

	t.Run("DictIsACopy", func(t *testing.T) {
		record := NewDiscoveryRecord()
		record.SetPortals("iqn.x", []Portal{{Address: "10.0.0.5:3260"}})

		dict := record.Dict()
		delete(dict, "iqn.x")
		assert.Equal(t, []string{"iqn.x"}, record.Targets())
	})
}
