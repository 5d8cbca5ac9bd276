package prefstore

import (
	"fmt"

	"github.com/iscsikit/iscsiconf/internal/metrics"
	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// Tree names used in logs and metrics labels.
const (
	treeTargets   = "targets"
	treeDiscovery = "discovery"
	treeInitiator = "initiator"
)

// Synchronize reconciles the three cached trees with the backing property
// store. A dirty tree is authoritative and flushed; a clean tree is assumed
// stale and reloaded after the store commit, picking up changes from other
// writers. Dirty flags are reset only when every step succeeded; on error
// they stay set, so a retry re-flushes the same pending mutations.
func (s *Store) Synchronize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	targetsDirty := s.targetsDirty
	discoveryDirty := s.discoveryDirty
	initiatorDirty := s.initiatorDirty

	if targetsDirty {
		if err := s.flushTree(treeTargets, keyTargets, encodeTargets(s.targets)); err != nil {
			return err
		}
	}
	if discoveryDirty {
		if err := s.flushTree(treeDiscovery, keyDiscovery, propstore.DeepCopy(s.discovery)); err != nil {
			return err
		}
	}
	if initiatorDirty {
		if err := s.flushTree(treeInitiator, keyInitiator, encodeInitiator(s.initiator)); err != nil {
			return err
		}
	}

	if err := s.props.SynchronizeAll(); err != nil {
		metrics.RecordSyncError()
		return fmt.Errorf("committing property store: %w", err)
	}

	if !targetsDirty {
		tree, err := s.reloadTree(treeTargets, keyTargets)
		if err != nil {
			return err
		}
		s.targets = decodeTargets(tree)
	}
	if !discoveryDirty {
		tree, err := s.reloadTree(treeDiscovery, keyDiscovery)
		if err != nil {
			return err
		}
		s.discovery = tree
	}
	if !initiatorDirty {
		tree, err := s.reloadTree(treeInitiator, keyInitiator)
		if err != nil {
			return err
		}
		s.initiator = decodeInitiator(tree)
	}

	s.targetsDirty = false
	s.discoveryDirty = false
	s.initiatorDirty = false
	return nil
}

func (s *Store) flushTree(name, key string, tree propstore.Tree) error {
	if err := s.props.SetValue(key, tree); err != nil {
		metrics.RecordSyncError()
		return fmt.Errorf("flushing %s tree: %w", name, err)
	}
	metrics.RecordSyncFlush(name)
	s.logger.Debug("flushed %s tree to property store", name)
	return nil
}

func (s *Store) reloadTree(name, key string) (propstore.Tree, error) {
	tree, err := s.props.CopyValue(key)
	if err != nil {
		metrics.RecordSyncError()
		return nil, fmt.Errorf("reloading %s tree: %w", name, err)
	}
	metrics.RecordSyncReload(name)
	return tree, nil
}
