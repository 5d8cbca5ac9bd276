// Package propstore defines the contract for the persistent property store
// that backs the iSCSI configuration cache.
//
// A property store is a keyed collection of structured trees. The
// configuration layer mirrors three such trees in memory (targets, discovery,
// initiator) and reconciles them with the store through Synchronize. The
// store itself is a dumb collaborator: it knows nothing about the iSCSI
// schema, only about named trees of strings, numbers, booleans and nested
// trees.
//
// Implementations live in internal/backends and are selected through the
// backend registry. All implementations must treat an absent key as a normal
// outcome, returning (nil, nil) from CopyValue rather than an error.
package propstore

// Tree is a generic string-keyed structured value. Leaves are strings,
// int/int64, float64, bool, or nested Trees. It is the unit of exchange
// between the configuration cache and a Store.
type Tree = map[string]any

// Store is a keyed persistent tree store.
//
// SetValue stages or writes a tree under a logical key; SynchronizeAll
// commits all staged writes to durable storage and is also the point at
// which file-backed implementations pick up changes made by other writers.
// CopyValue must return a copy that the caller may freely mutate.
type Store interface {
	// CopyValue returns the tree stored under key, or (nil, nil) when the
	// key has never been written.
	CopyValue(key string) (Tree, error)

	// SetValue stores tree under key. The tree is copied; later caller
	// mutations do not leak into the store.
	SetValue(key string, tree Tree) error

	// SynchronizeAll flushes pending writes to durable storage.
	SynchronizeAll() error

	// Close releases any resources held by the store.
	Close() error
}

// DeepCopy returns a recursive copy of t. Nested Trees are copied; scalar
// leaves are shared (they are immutable values). Returns nil for a nil tree.
func DeepCopy(t Tree) Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		if sub, ok := v.(Tree); ok {
			out[k] = DeepCopy(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

// String reads a string leaf from t. Returns "" when the key is absent or
// holds a non-string value.
func String(t Tree, key string) string {
	if t == nil {
		return ""
	}
	s, _ := t[key].(string)
	return s
}

// Int reads an integer leaf from t. Backends differ in how they decode
// numbers (YAML yields int, JSON yields float64), so all numeric forms are
// accepted. Returns 0 when the key is absent or non-numeric.
func Int(t Tree, key string) int {
	if t == nil {
		return 0
	}
	switch v := t[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool reads a boolean leaf from t. Returns false when absent or non-bool.
func Bool(t Tree, key string) bool {
	if t == nil {
		return false
	}
	b, _ := t[key].(bool)
	return b
}

// Subtree reads a nested Tree from t. Backends that decode from serialized
// form may produce map[string]any values, which alias Tree. Returns nil when
// the key is absent or not a tree.
func Subtree(t Tree, key string) Tree {
	if t == nil {
		return nil
	}
	sub, _ := t[key].(Tree)
	return sub
}
