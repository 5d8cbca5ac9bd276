// Package prefstore implements the persistent configuration and credential
// store for an iSCSI initiator.
//
// The store mirrors three logically independent configuration trees in
// process memory (configured targets, cached discovery results, and the
// initiator's own identity), each backed by a named entry in a persistent
// property store and each tracked by its own dirty flag. Typed accessors
// navigate the nested schema with get-or-create semantics, translate between
// domain objects and generic property trees, and mark the owning tree dirty
// on every mutation. Synchronize reconciles each tree with the backing
// store: dirty trees are flushed, clean trees are reloaded to absorb changes
// made by other writers.
//
// CHAP secrets never enter the trees. Only the authentication method tag is
// persisted; secret material is delegated to a credential vault keyed by the
// owning node's IQN.
//
// A Store is safe for concurrent use by multiple goroutines, though the
// multi-writer story across processes remains cooperative: two processes
// mutating the same tree between synchronizes can still lose updates.
package prefstore

import (
	"fmt"
	"sync"

	"github.com/iscsikit/iscsiconf/internal/backends"
	"github.com/iscsikit/iscsiconf/internal/logging"
	"github.com/iscsikit/iscsiconf/internal/vaults"
	"github.com/iscsikit/iscsiconf/pkg/credvault"
	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// Logical keys in the backing property store. One entry per configuration
// tree.
const (
	keyTargets   = "Target Nodes"
	keyDiscovery = "SendTargets Discovery"
	keyInitiator = "Initiator Node"
)

// Schema keys inside the targets and initiator trees. Part of the persisted
// format; do not change between releases.
const (
	keyTargetData       = "Target Data"
	keySessionConfig    = "Session Configuration"
	keyPortals          = "Portals"
	keyPortalData       = "Portal Data"
	keyConnectionConfig = "Connection Configuration"
	keyAuth             = "Authentication"
	keyInitiatorIQN     = "Name"
	keyInitiatorAlias   = "Alias"
)

// CHAPService is the credential namespace under which CHAP entries are
// stored in the vault.
const CHAPService = "iSCSI CHAP"

// DefaultAppID is the application identifier used to locate the backing
// property store when none is configured.
const DefaultAppID = "com.github.iscsikit.iscsiconf"

// Options configures a Store.
type Options struct {
	// AppID scopes the backing store location. Defaults to DefaultAppID.
	AppID string

	// Backend selects the property store backend ("file", "bolt" or
	// "memory") when Props is nil. Defaults to "file".
	Backend string

	// Path overrides the backend's default store location.
	Path string

	// Props injects a property store directly, bypassing Backend/Path.
	Props propstore.Store

	// Vault is the credential vault for CHAP secrets. Defaults to the OS
	// keyring.
	Vault credvault.Vault

	// VaultService overrides the credential namespace. Defaults to
	// CHAPService.
	VaultService string

	// Logger receives diagnostic output. Defaults to a non-debug stderr
	// logger.
	Logger *logging.Logger
}

// Store is the in-memory configuration cache together with its backing
// property store and credential vault.
type Store struct {
	mu      sync.Mutex
	props   propstore.Store
	vault   credvault.Vault
	service string
	logger  *logging.Logger

	// Cached trees. nil means "not loaded / logically absent"; absence of
	// an entry inside a loaded tree is key-absence, never a nil node.
	targets   map[string]*targetNode
	discovery propstore.Tree
	initiator *initiatorNode

	// Per-tree dirty flags. The sole signal Synchronize uses to decide
	// flush versus reload; reset only by a fully successful Synchronize.
	targetsDirty   bool
	discoveryDirty bool
	initiatorDirty bool

	closed bool
}

// targetNode is the in-memory form of one configured target: its identity
// record, session parameters, authentication method tag and portals.
type targetNode struct {
	targetData propstore.Tree
	sessionCfg propstore.Tree
	authMethod string
	portals    map[string]*portalNode
}

// portalNode is the in-memory form of one portal under a target. Zero
// fields stand for the empty placeholders a freshly created portal carries.
type portalNode struct {
	portalData propstore.Tree
	connCfg    propstore.Tree
	authMethod string
}

// initiatorNode is the single initiator identity record.
type initiatorNode struct {
	iqn        string
	alias      string
	authMethod string
}

// Open creates a Store from opts. The cached trees start unloaded; call
// Synchronize to populate them from the backing store, or start writing and
// the trees materialize empty.
func Open(opts Options) (*Store, error) {
	if opts.AppID == "" {
		opts.AppID = DefaultAppID
	}
	if opts.Backend == "" {
		opts.Backend = "file"
	}
	if opts.VaultService == "" {
		opts.VaultService = CHAPService
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(false, false)
	}

	props := opts.Props
	if props == nil {
		var err error
		props, err = backends.NewRegistry().Open(opts.Backend, opts.AppID, opts.Path)
		if err != nil {
			return nil, err
		}
	}

	vault := opts.Vault
	if vault == nil {
		vault = vaults.NewKeyringVault()
	}

	return &Store{
		props:   props,
		vault:   vault,
		service: opts.VaultService,
		logger:  opts.Logger,
	}, nil
}

// Close releases the backing property store. Unsynchronized mutations are
// discarded.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.props.Close(); err != nil {
		return fmt.Errorf("closing property store: %w", err)
	}
	return nil
}

// getTargets returns the targets tree, materializing an empty one when
// createIfMissing is set. Callers must hold s.mu.
func (s *Store) getTargets(createIfMissing bool) map[string]*targetNode {
	if s.targets == nil && createIfMissing {
		s.targets = make(map[string]*targetNode)
	}
	return s.targets
}

// getTargetNode navigates to a target's node. With createIfMissing, an
// absent target is inserted empty and the targets tree marked dirty; an
// existing node is returned untouched. Callers must hold s.mu.
func (s *Store) getTargetNode(targetIQN string, createIfMissing bool) *targetNode {
	targets := s.getTargets(createIfMissing)
	if targets == nil {
		return nil
	}
	node, ok := targets[targetIQN]
	if !ok {
		if !createIfMissing {
			return nil
		}
		node = &targetNode{}
		targets[targetIQN] = node
		s.targetsDirty = true
	}
	return node
}

// getPortals navigates to a target's portals list. Callers must hold s.mu.
func (s *Store) getPortals(targetIQN string, createIfMissing bool) map[string]*portalNode {
	node := s.getTargetNode(targetIQN, createIfMissing)
	if node == nil {
		return nil
	}
	if node.portals == nil && createIfMissing {
		node.portals = make(map[string]*portalNode)
		s.targetsDirty = true
	}
	return node.portals
}

// getPortalNode navigates to a portal's node under a target. Callers must
// hold s.mu.
func (s *Store) getPortalNode(targetIQN, portalAddress string, createIfMissing bool) *portalNode {
	portals := s.getPortals(targetIQN, createIfMissing)
	if portals == nil {
		return nil
	}
	node, ok := portals[portalAddress]
	if !ok {
		if !createIfMissing {
			return nil
		}
		node = &portalNode{}
		portals[portalAddress] = node
		s.targetsDirty = true
	}
	return node
}

// getInitiator returns the initiator record, creating it with empty
// identity fields when requested. Callers must hold s.mu.
func (s *Store) getInitiator(createIfMissing bool) *initiatorNode {
	if s.initiator == nil && createIfMissing {
		s.initiator = &initiatorNode{}
	}
	return s.initiator
}
