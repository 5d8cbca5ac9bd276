// Package backends provides the property store implementations behind the
// propstore.Store contract: an in-memory store for tests and ephemeral use,
// a YAML file store in the spirit of the platform preferences files, and a
// bbolt single-file database.
package backends

import (
	"sync"

	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// MemoryStore is a propstore.Store held entirely in process memory. It is
// the reference implementation for the store contract and the natural
// backing for tests: sharing one MemoryStore between two configuration
// caches models two processes sharing a preferences file.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]propstore.Tree

	// SetValueErr, when non-nil, is returned by SetValue. Test hook for
	// exercising write-failure paths.
	SetValueErr error

	// SynchronizeErr, when non-nil, is returned by SynchronizeAll.
	SynchronizeErr error
}

// NewMemoryStore creates an empty in-memory property store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]propstore.Tree)}
}

// CopyValue returns a copy of the tree under key, or (nil, nil) when the key
// was never written.
func (s *MemoryStore) CopyValue(key string) (propstore.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return propstore.DeepCopy(tree), nil
}

// SetValue stores a copy of tree under key.
func (s *MemoryStore) SetValue(key string, tree propstore.Tree) error {
	if s.SetValueErr != nil {
		return s.SetValueErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = propstore.DeepCopy(tree)
	return nil
}

// SynchronizeAll is a no-op for the in-memory store; writes are visible
// immediately.
func (s *MemoryStore) SynchronizeAll() error {
	return s.SynchronizeErr
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

var _ propstore.Store = (*MemoryStore)(nil)
