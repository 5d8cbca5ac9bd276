// Package vaults provides the credential vault implementations behind the
// credvault.Vault contract: the OS keyring for real deployments and a
// memguard-protected in-memory vault for tests and headless systems.
package vaults

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/iscsikit/iscsiconf/pkg/credvault"
)

// KeyringVault stores CHAP credentials in the platform credential store
// (macOS Keychain, Windows Credential Manager, or the freedesktop Secret
// Service). Entries are keyed by (service, label); the account rides along
// inside the stored payload so that a label lookup recovers both.
type KeyringVault struct{}

// NewKeyringVault creates an OS keyring backed vault.
func NewKeyringVault() *KeyringVault {
	return &KeyringVault{}
}

// keyringPayload is the JSON document stored as the keyring password.
// A structured payload rather than the raw secret, because the keyring API
// keys entries by a single user string and we need the account back on read.
type keyringPayload struct {
	Account string `json:"account"`
	Secret  string `json:"secret"`
}

// SetSecret creates or updates the keyring entry for (service, label).
func (v *KeyringVault) SetSecret(service, account, label, secret string) error {
	payload, err := json.Marshal(keyringPayload{Account: account, Secret: secret})
	if err != nil {
		return credvault.AccessError{Service: service, Message: "encoding credentials", Err: err}
	}
	if err := keyring.Set(service, label, string(payload)); err != nil {
		return classifyKeyringError(service, label, err)
	}
	return nil
}

// GetSecret retrieves the credentials stored under (service, label).
func (v *KeyringVault) GetSecret(service, label string) (credvault.Credentials, error) {
	raw, err := keyring.Get(service, label)
	if err != nil {
		return credvault.Credentials{}, classifyKeyringError(service, label, err)
	}
	var payload keyringPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		// Entry written by another tool, or pre-JSON format: treat the raw
		// value as the secret with no account.
		return credvault.Credentials{Secret: raw}, nil
	}
	return credvault.Credentials{Account: payload.Account, Secret: payload.Secret}, nil
}

func classifyKeyringError(service, label string, err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return credvault.NotFoundError{Service: service, Label: label}
	}
	if isAccessDenied(err) {
		return credvault.AccessError{Service: service, Message: "access denied", Err: err}
	}
	return credvault.AccessError{Service: service, Err: err}
}

// isAccessDenied checks if an error indicates access was denied.
func isAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "access denied") ||
		strings.Contains(errStr, "user denied") ||
		strings.Contains(errStr, "canceled") ||
		strings.Contains(errStr, "locked")
}

var _ credvault.Vault = (*KeyringVault)(nil)
