package backends

import (
	"encoding/json"
	"path/filepath"

	"github.com/OpenPeeDeeP/xdg"
	bolt "go.etcd.io/bbolt"

	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

var bucketPreferences = []byte("preferences")

// BoltStore is a propstore.Store backed by a bbolt single-file database.
// Unlike the file store, writes are durable as soon as SetValue returns;
// SynchronizeAll only forces an fsync.
type BoltStore struct {
	db *bolt.DB
}

// DefaultBoltPath returns the database location for an application
// identifier, under the XDG data home.
func DefaultBoltPath(appID string) string {
	return filepath.Join(xdg.New("iscsikit", "iscsiconf").DataHome(), appID+".db")
}

// NewBoltStore opens (creating if needed) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, propstore.StoreError{Backend: "bolt", Op: "open", Err: err}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPreferences)
		return err
	})
	if err != nil {
		db.Close()
		return nil, propstore.StoreError{Backend: "bolt", Op: "open", Err: err}
	}

	return &BoltStore{db: db}, nil
}

// CopyValue returns the tree stored under key, or (nil, nil) when absent.
func (s *BoltStore) CopyValue(key string) (propstore.Tree, error) {
	var tree propstore.Tree
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPreferences).Get([]byte(key))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &tree)
	})
	if err != nil {
		return nil, propstore.StoreError{Backend: "bolt", Op: "copy", Key: key, Err: err}
	}
	return tree, nil
}

// SetValue stores tree under key.
func (s *BoltStore) SetValue(key string, tree propstore.Tree) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(tree)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketPreferences).Put([]byte(key), data)
	})
	if err != nil {
		return propstore.StoreError{Backend: "bolt", Op: "set", Key: key, Err: err}
	}
	return nil
}

// SynchronizeAll forces an fsync of the database file.
func (s *BoltStore) SynchronizeAll() error {
	if err := s.db.Sync(); err != nil {
		return propstore.StoreError{Backend: "bolt", Op: "synchronize", Err: err}
	}
	return nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ propstore.Store = (*BoltStore)(nil)
