// Package iscsi holds the typed domain objects of the initiator
// configuration store and their codecs to and from generic property trees.
//
// Every type round-trips through a propstore.Tree: the Dict method encodes,
// the matching *FromDict function decodes. Decoders accept nil and return nil
// (absent data is a normal state, never an error) and tolerate missing or
// oddly-typed leaves by falling back to zero values.
package iscsi

import (
	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// Tree leaf keys for the typed object codecs. These are part of the
// persisted schema and must not change between releases.
const (
	keyName          = "Name"
	keyAlias         = "Alias"
	keyAddress       = "Address"
	keyPort          = "Port"
	keyHostInterface = "Host Interface"
)

// Target identifies an iSCSI target node.
type Target struct {
	// IQN is the target's iSCSI qualified name.
	IQN string

	// Alias is a human-readable name for the target, may be empty.
	Alias string
}

// Dict encodes the target as a property tree.
func (t *Target) Dict() propstore.Tree {
	if t == nil {
		return nil
	}
	return propstore.Tree{
		keyName:  t.IQN,
		keyAlias: t.Alias,
	}
}

// TargetFromDict decodes a target from a property tree. Returns nil for a
// nil tree.
func TargetFromDict(dict propstore.Tree) *Target {
	if dict == nil {
		return nil
	}
	return &Target{
		IQN:   propstore.String(dict, keyName),
		Alias: propstore.String(dict, keyAlias),
	}
}

// Portal is a network endpoint through which a target is reachable.
type Portal struct {
	// Address is the portal's hostname or IP address, optionally with a
	// port suffix. It is the portal's identity within a target.
	Address string

	// Port is the TCP port, "3260" when unset.
	Port string

	// HostInterface is the local interface used to reach the portal, may
	// be empty for the default route.
	HostInterface string
}

// DefaultPort is the IANA-assigned iSCSI target port.
const DefaultPort = "3260"

// Dict encodes the portal as a property tree.
func (p *Portal) Dict() propstore.Tree {
	if p == nil {
		return nil
	}
	port := p.Port
	if port == "" {
		port = DefaultPort
	}
	return propstore.Tree{
		keyAddress:       p.Address,
		keyPort:          port,
		keyHostInterface: p.HostInterface,
	}
}

// PortalFromDict decodes a portal from a property tree. Returns nil for a
// nil tree.
func PortalFromDict(dict propstore.Tree) *Portal {
	if dict == nil {
		return nil
	}
	return &Portal{
		Address:       propstore.String(dict, keyAddress),
		Port:          propstore.String(dict, keyPort),
		HostInterface: propstore.String(dict, keyHostInterface),
	}
}
