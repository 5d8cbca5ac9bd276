package iscsi

import (
	"sort"

	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// DiscoveryRecord caches the result of a SendTargets discovery operation:
// for each discovered target, the portals it was reported on.
//
// The record owns its persisted schema entirely: it encodes to a flat tree
// keyed by target IQN whose values are portal trees keyed by portal address.
// The configuration store merges these trees key-by-key with last-write-wins
// semantics and never interprets them.
type DiscoveryRecord struct {
	entries propstore.Tree
}

// NewDiscoveryRecord returns an empty discovery record.
func NewDiscoveryRecord() *DiscoveryRecord {
	return &DiscoveryRecord{entries: make(propstore.Tree)}
}

// SetPortals records the portals a target was discovered on, replacing any
// previously recorded portals for that target.
func (r *DiscoveryRecord) SetPortals(targetIQN string, portals []Portal) {
	if r.entries == nil {
		r.entries = make(propstore.Tree)
	}
	group := make(propstore.Tree, len(portals))
	for i := range portals {
		group[portals[i].Address] = portals[i].Dict()
	}
	r.entries[targetIQN] = group
}

// Portals returns the recorded portals for a target, sorted by address.
// Returns nil when the target was never discovered.
func (r *DiscoveryRecord) Portals(targetIQN string) []Portal {
	group := propstore.Subtree(r.entries, targetIQN)
	if group == nil {
		return nil
	}
	addrs := make([]string, 0, len(group))
	for addr := range group {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	portals := make([]Portal, 0, len(addrs))
	for _, addr := range addrs {
		if p := PortalFromDict(propstore.Subtree(group, addr)); p != nil {
			portals = append(portals, *p)
		}
	}
	return portals
}

// Targets returns the IQNs of all discovered targets, sorted. Returns nil
// when the record is empty.
func (r *DiscoveryRecord) Targets() []string {
	if len(r.entries) == 0 {
		return nil
	}
	iqns := make([]string, 0, len(r.entries))
	for iqn := range r.entries {
		iqns = append(iqns, iqn)
	}
	sort.Strings(iqns)
	return iqns
}

// Dict encodes the record as a flat property tree. Returns nil for a nil or
// empty record.
func (r *DiscoveryRecord) Dict() propstore.Tree {
	if r == nil || len(r.entries) == 0 {
		return nil
	}
	return propstore.DeepCopy(r.entries)
}

// DiscoveryRecordFromDict decodes a record from a property tree. Returns nil
// for a nil tree.
func DiscoveryRecordFromDict(dict propstore.Tree) *DiscoveryRecord {
	if dict == nil {
		return nil
	}
	return &DiscoveryRecord{entries: propstore.DeepCopy(dict)}
}
