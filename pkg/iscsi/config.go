package iscsi

import (
	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

const (
	keyMaxConnections       = "Max Connections"
	keyTargetPortalGroupTag = "Target Portal Group Tag"
	keyTargetSessionID      = "Target Session ID"
	keyHeaderDigest         = "Header Digest"
	keyDataDigest           = "Data Digest"
)

// SessionConfig holds per-session negotiation parameters for a target.
type SessionConfig struct {
	// MaxConnections is the maximum number of connections in the session.
	MaxConnections int

	// TargetPortalGroupTag identifies the portal group the session binds to.
	TargetPortalGroupTag int

	// TargetSessionID is the target-assigned session identifier.
	TargetSessionID int
}

// Dict encodes the session configuration as a property tree.
func (c *SessionConfig) Dict() propstore.Tree {
	if c == nil {
		return nil
	}
	return propstore.Tree{
		keyMaxConnections:       c.MaxConnections,
		keyTargetPortalGroupTag: c.TargetPortalGroupTag,
		keyTargetSessionID:      c.TargetSessionID,
	}
}

// SessionConfigFromDict decodes a session configuration from a property
// tree. Returns nil for a nil tree.
func SessionConfigFromDict(dict propstore.Tree) *SessionConfig {
	if dict == nil {
		return nil
	}
	return &SessionConfig{
		MaxConnections:       propstore.Int(dict, keyMaxConnections),
		TargetPortalGroupTag: propstore.Int(dict, keyTargetPortalGroupTag),
		TargetSessionID:      propstore.Int(dict, keyTargetSessionID),
	}
}

// ConnectionConfig holds per-connection negotiation parameters for a portal.
type ConnectionConfig struct {
	// UseHeaderDigest enables CRC32C digests on PDU headers.
	UseHeaderDigest bool

	// UseDataDigest enables CRC32C digests on PDU data segments.
	UseDataDigest bool
}

// Dict encodes the connection configuration as a property tree.
func (c *ConnectionConfig) Dict() propstore.Tree {
	if c == nil {
		return nil
	}
	return propstore.Tree{
		keyHeaderDigest: c.UseHeaderDigest,
		keyDataDigest:   c.UseDataDigest,
	}
}

// ConnectionConfigFromDict decodes a connection configuration from a
// property tree. Returns nil for a nil tree.
func ConnectionConfigFromDict(dict propstore.Tree) *ConnectionConfig {
	if dict == nil {
		return nil
	}
	return &ConnectionConfig{
		UseHeaderDigest: propstore.Bool(dict, keyHeaderDigest),
		UseDataDigest:   propstore.Bool(dict, keyDataDigest),
	}
}
