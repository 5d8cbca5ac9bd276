package backends

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/OpenPeeDeeP/xdg"
	"gopkg.in/yaml.v3"

	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// FileStore is a propstore.Store persisted as a single YAML document, the
// moral equivalent of a per-application preferences file. Writes are staged
// in memory and committed by SynchronizeAll, which also re-reads the file so
// that changes from other writers become visible.
type FileStore struct {
	path string

	mu       sync.Mutex
	loaded   bool
	snapshot map[string]propstore.Tree
	staged   map[string]propstore.Tree
}

// DefaultFilePath returns the preferences file location for an application
// identifier, under the XDG config home.
func DefaultFilePath(appID string) string {
	return filepath.Join(xdg.New("iscsikit", "iscsiconf").ConfigHome(), appID+".yaml")
}

// NewFileStore creates a file store persisting to path. The file does not
// need to exist yet; it is created on the first SynchronizeAll.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		staged: make(map[string]propstore.Tree),
	}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// CopyValue returns a copy of the tree under key. Staged writes shadow the
// last loaded file contents.
func (s *FileStore) CopyValue(key string) (propstore.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, propstore.StoreError{Backend: "file", Op: "copy", Key: key, Err: err}
	}
	if tree, ok := s.staged[key]; ok {
		return propstore.DeepCopy(tree), nil
	}
	tree, ok := s.snapshot[key]
	if !ok {
		return nil, nil
	}
	return propstore.DeepCopy(tree), nil
}

// SetValue stages a copy of tree under key. The write becomes durable on
// the next SynchronizeAll.
func (s *FileStore) SetValue(key string, tree propstore.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[key] = propstore.DeepCopy(tree)
	return nil
}

// SynchronizeAll merges staged writes over the current file contents and
// writes the result back atomically. Staged keys win over concurrent
// writers; unstaged keys pick up whatever the file holds now.
func (s *FileStore) SynchronizeAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := readPrefsFile(s.path)
	if err != nil {
		return propstore.StoreError{Backend: "file", Op: "synchronize", Err: err}
	}
	for key, tree := range s.staged {
		current[key] = tree
	}

	if err := writePrefsFile(s.path, current); err != nil {
		return propstore.StoreError{Backend: "file", Op: "synchronize", Err: err}
	}

	s.snapshot = current
	s.staged = make(map[string]propstore.Tree)
	s.loaded = true
	return nil
}

// Close discards staged writes without persisting them.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = make(map[string]propstore.Tree)
	return nil
}

func (s *FileStore) loadLocked() error {
	if s.loaded {
		return nil
	}
	snapshot, err := readPrefsFile(s.path)
	if err != nil {
		return err
	}
	s.snapshot = snapshot
	s.loaded = true
	return nil
}

func readPrefsFile(path string) (map[string]propstore.Tree, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]propstore.Tree), nil
	}
	if err != nil {
		return nil, err
	}
	contents := make(map[string]propstore.Tree)
	if err := yaml.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("malformed preferences file %s: %w", path, err)
	}
	if contents == nil {
		contents = make(map[string]propstore.Tree)
	}
	return contents, nil
}

func writePrefsFile(path string, contents map[string]propstore.Tree) error {
	data, err := yaml.Marshal(contents)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	// Write-then-rename so a crash never leaves a truncated file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

var _ propstore.Store = (*FileStore)(nil)
