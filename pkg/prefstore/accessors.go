package prefstore

import (
	"sort"

	"github.com/iscsikit/iscsiconf/pkg/iscsi"
)

// SetTarget stores a target's identity record, creating the target entry if
// it does not exist. The entry is keyed by the target's IQN.
func (s *Store) SetTarget(target *iscsi.Target) {
	if target == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getTargetNode(target.IQN, true)
	node.targetData = target.Dict()
	s.targetsDirty = true
}

// Target returns the identity record for a target, or nil when the target
// is not configured.
func (s *Store) Target(targetIQN string) *iscsi.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getTargetNode(targetIQN, false)
	if node == nil {
		return nil
	}
	return iscsi.TargetFromDict(node.targetData)
}

// RemoveTarget deletes a target and everything under it. Removing an absent
// target is a no-op on the tree contents but still only possible once the
// tree exists.
func (s *Store) RemoveTarget(targetIQN string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	targets := s.getTargets(false)
	if targets == nil {
		return
	}
	delete(targets, targetIQN)
	s.targetsDirty = true
}

// ContainsTarget reports whether a target is configured.
func (s *Store) ContainsTarget(targetIQN string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	targets := s.getTargets(false)
	if targets == nil {
		return false
	}
	_, ok := targets[targetIQN]
	return ok
}

// TargetIQNs returns the configured target IQNs, sorted. Returns nil when
// no targets exist; callers treat nil and empty identically.
func (s *Store) TargetIQNs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	targets := s.getTargets(false)
	if len(targets) == 0 {
		return nil
	}
	iqns := make([]string, 0, len(targets))
	for iqn := range targets {
		iqns = append(iqns, iqn)
	}
	sort.Strings(iqns)
	return iqns
}

// SetSessionConfig stores a target's session parameters, creating the
// target entry if needed.
func (s *Store) SetSessionConfig(targetIQN string, cfg *iscsi.SessionConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getTargetNode(targetIQN, true)
	node.sessionCfg = cfg.Dict()
	s.targetsDirty = true
}

// SessionConfig returns a target's session parameters, or nil when the
// target or its configuration is absent.
func (s *Store) SessionConfig(targetIQN string) *iscsi.SessionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getTargetNode(targetIQN, false)
	if node == nil {
		return nil
	}
	return iscsi.SessionConfigFromDict(node.sessionCfg)
}

// SetPortal stores a portal under a target, keyed by the portal's address.
// Missing ancestors (the target entry, its portals list) are created.
func (s *Store) SetPortal(targetIQN string, portal *iscsi.Portal) {
	if portal == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getPortalNode(targetIQN, portal.Address, true)
	node.portalData = portal.Dict()
	s.targetsDirty = true
}

// Portal returns a target's portal by address, or nil when absent.
func (s *Store) Portal(targetIQN, portalAddress string) *iscsi.Portal {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getPortalNode(targetIQN, portalAddress, false)
	if node == nil {
		return nil
	}
	return iscsi.PortalFromDict(node.portalData)
}

// RemovePortal deletes a portal from a target.
func (s *Store) RemovePortal(targetIQN, portalAddress string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	portals := s.getPortals(targetIQN, false)
	if portals == nil {
		return
	}
	delete(portals, portalAddress)
	s.targetsDirty = true
}

// ContainsPortal reports whether a portal is configured under a target.
func (s *Store) ContainsPortal(targetIQN, portalAddress string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	portals := s.getPortals(targetIQN, false)
	if portals == nil {
		return false
	}
	_, ok := portals[portalAddress]
	return ok
}

// PortalAddresses returns the portal addresses configured under a target,
// sorted. Returns nil when the target or its portals list is absent or
// empty.
func (s *Store) PortalAddresses(targetIQN string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	portals := s.getPortals(targetIQN, false)
	if len(portals) == 0 {
		return nil
	}
	addrs := make([]string, 0, len(portals))
	for addr := range portals {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

// SetConnectionConfig stores a portal's connection parameters, creating
// missing ancestors.
func (s *Store) SetConnectionConfig(targetIQN, portalAddress string, cfg *iscsi.ConnectionConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getPortalNode(targetIQN, portalAddress, true)
	node.connCfg = cfg.Dict()
	s.targetsDirty = true
}

// ConnectionConfig returns a portal's connection parameters, or nil when
// absent.
func (s *Store) ConnectionConfig(targetIQN, portalAddress string) *iscsi.ConnectionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getPortalNode(targetIQN, portalAddress, false)
	if node == nil {
		return nil
	}
	return iscsi.ConnectionConfigFromDict(node.connCfg)
}

// SetInitiatorIQN sets the initiator's iSCSI qualified name, creating the
// initiator record if needed.
func (s *Store) SetInitiatorIQN(initiatorIQN string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getInitiator(true)
	node.iqn = initiatorIQN
	s.initiatorDirty = true
}

// InitiatorIQN returns the initiator's iSCSI qualified name, or "" when the
// initiator record is absent or the name was never set.
func (s *Store) InitiatorIQN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getInitiator(false)
	if node == nil {
		return ""
	}
	return node.iqn
}

// SetInitiatorAlias sets the initiator's human-readable alias.
func (s *Store) SetInitiatorAlias(alias string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getInitiator(true)
	node.alias = alias
	s.initiatorDirty = true
}

// InitiatorAlias returns the initiator's alias, or "" when unset.
func (s *Store) InitiatorAlias() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.getInitiator(false)
	if node == nil {
		return ""
	}
	return node.alias
}
