package prefstore

import (
	ierrors "github.com/iscsikit/iscsiconf/internal/errors"
	"github.com/iscsikit/iscsiconf/internal/metrics"
	"github.com/iscsikit/iscsiconf/pkg/iscsi"
)

// AuthenticationForTarget returns the authentication configured for a
// target. A method tag other than the literal CHAP tag, including an
// absent target, yields the no-authentication variant. A CHAP tag whose
// vault entry cannot be read also degrades to no authentication: a missing
// or unreadable secret is indistinguishable from none configured, never a
// fatal condition.
func (s *Store) AuthenticationForTarget(targetIQN string) iscsi.Auth {
	s.mu.Lock()
	var method string
	if node := s.getTargetNode(targetIQN, false); node != nil {
		method = node.authMethod
	}
	s.mu.Unlock()

	return s.lookupCHAP(method, targetIQN)
}

// SetAuthenticationForTarget configures authentication for a target. For
// CHAP, the credentials are written to the vault first and the method tag
// is only set once that write succeeds, so a vault failure never leaves a
// CHAP tag without a retrievable secret. Missing ancestors are created.
func (s *Store) SetAuthenticationForTarget(targetIQN string, auth iscsi.Auth) error {
	return s.storeAuth(auth, targetIQN, func(method string) {
		s.getTargetNode(targetIQN, true).authMethod = method
		s.targetsDirty = true
	})
}

// AuthenticationForPortal returns the authentication configured for one
// portal of a target, with the same degradation rules as
// AuthenticationForTarget. Portal credentials are vaulted under a
// target-IQN/portal-address label.
func (s *Store) AuthenticationForPortal(targetIQN, portalAddress string) iscsi.Auth {
	s.mu.Lock()
	var method string
	if node := s.getPortalNode(targetIQN, portalAddress, false); node != nil {
		method = node.authMethod
	}
	s.mu.Unlock()

	return s.lookupCHAP(method, portalLabel(targetIQN, portalAddress))
}

// SetAuthenticationForPortal configures authentication for one portal of a
// target.
func (s *Store) SetAuthenticationForPortal(targetIQN, portalAddress string, auth iscsi.Auth) error {
	return s.storeAuth(auth, portalLabel(targetIQN, portalAddress), func(method string) {
		s.getPortalNode(targetIQN, portalAddress, true).authMethod = method
		s.targetsDirty = true
	})
}

// AuthenticationForInitiator returns the initiator's own authentication.
// The vault label is the initiator IQN read fresh on every call, since the
// IQN itself is mutable configuration.
func (s *Store) AuthenticationForInitiator() iscsi.Auth {
	s.mu.Lock()
	var method, label string
	if node := s.getInitiator(false); node != nil {
		method = node.authMethod
		label = node.iqn
	}
	s.mu.Unlock()

	return s.lookupCHAP(method, label)
}

// SetAuthenticationForInitiator configures the initiator's own
// authentication, vaulted under the current initiator IQN.
func (s *Store) SetAuthenticationForInitiator(auth iscsi.Auth) error {
	s.mu.Lock()
	var label string
	if node := s.getInitiator(false); node != nil {
		label = node.iqn
	}
	s.mu.Unlock()

	return s.storeAuth(auth, label, func(method string) {
		s.getInitiator(true).authMethod = method
		s.initiatorDirty = true
	})
}

// lookupCHAP resolves a method tag to an Auth object, consulting the vault
// for CHAP entries. Called without s.mu held; vault reads may block on OS
// prompts.
func (s *Store) lookupCHAP(method, label string) iscsi.Auth {
	if !iscsi.AuthMethod(method).IsCHAP() {
		return iscsi.AuthNone()
	}
	creds, err := s.vault.GetSecret(s.service, label)
	if err != nil {
		metrics.RecordVaultFallback()
		s.logger.Debug("CHAP secret lookup for %q failed, treating as no authentication: %v", label, err)
		return iscsi.AuthNone()
	}
	return iscsi.AuthCHAP(creds.Account, creds.Secret)
}

// storeAuth applies an Auth object: the None variant only updates the
// method tag; the CHAP variant writes the vault entry first and updates the
// tag through setTag only on success.
func (s *Store) storeAuth(auth iscsi.Auth, label string, setTag func(method string)) error {
	if !auth.Method.IsCHAP() {
		s.mu.Lock()
		setTag(string(iscsi.AuthMethodNone))
		s.mu.Unlock()
		return nil
	}

	if err := s.vault.SetSecret(s.service, auth.User, label, auth.Secret); err != nil {
		metrics.RecordVaultWriteError()
		return ierrors.VaultError("storing CHAP secret", err)
	}

	s.mu.Lock()
	setTag(string(iscsi.AuthMethodCHAP))
	s.mu.Unlock()
	return nil
}

// portalLabel builds the vault label for per-portal credentials.
func portalLabel(targetIQN, portalAddress string) string {
	return targetIQN + "/" + portalAddress
}
