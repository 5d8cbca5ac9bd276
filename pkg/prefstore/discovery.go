package prefstore

import (
	"github.com/iscsikit/iscsiconf/pkg/iscsi"
	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// AddDiscoveryRecord merges a discovery result into the cached discovery
// tree. Each key of the record's encoded form is written over any existing
// entry (last write wins); keys absent from the record are left untouched.
// An empty record is a no-op and does not dirty the tree.
func (s *Store) AddDiscoveryRecord(record *iscsi.DiscoveryRecord) {
	dict := record.Dict()
	if len(dict) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discovery == nil {
		s.discovery = make(propstore.Tree, len(dict))
	}
	for key, value := range dict {
		s.discovery[key] = value
	}
	s.discoveryDirty = true
}

// DiscoveryRecord returns the cached discovery results, or nil when the
// discovery tree has never been populated.
func (s *Store) DiscoveryRecord() *iscsi.DiscoveryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return iscsi.DiscoveryRecordFromDict(s.discovery)
}

// ClearDiscoveryRecord discards the cached discovery tree. The clearing is
// persisted by the next Synchronize, which writes an absent value under the
// discovery key.
func (s *Store) ClearDiscoveryRecord() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovery = nil
	s.discoveryDirty = true
}
