package vaults

import (
	"sync"

	"github.com/awnumar/memguard"

	"github.com/iscsikit/iscsiconf/pkg/credvault"
)

// MemoryVault is an in-process credvault.Vault. Secret values are held in
// memguard enclaves so they stay encrypted at rest in memory and protected
// from swapping, even though the vault itself is ephemeral.
//
// It serves two roles: the vault for headless systems without a usable
// keyring, and the test double for everything that touches CHAP credentials.
type MemoryVault struct {
	mu      sync.RWMutex
	entries map[string]map[string]memoryEntry // service -> label

	// SetErr, when non-nil, is returned by SetSecret. Test hook.
	SetErr error

	// GetErr, when non-nil, is returned by GetSecret. Test hook.
	GetErr error
}

type memoryEntry struct {
	account string
	secret  *memguard.Enclave
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{entries: make(map[string]map[string]memoryEntry)}
}

// SetSecret creates or updates the entry for (service, label). The secret is
// sealed into an enclave immediately; the plaintext argument is the caller's
// to zero.
func (v *MemoryVault) SetSecret(service, account, label, secret string) error {
	if v.SetErr != nil {
		return v.SetErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.entries[service] == nil {
		v.entries[service] = make(map[string]memoryEntry)
	}
	v.entries[service][label] = memoryEntry{
		account: account,
		secret:  memguard.NewEnclave([]byte(secret)),
	}
	return nil
}

// GetSecret retrieves the credentials stored under (service, label).
func (v *MemoryVault) GetSecret(service, label string) (credvault.Credentials, error) {
	if v.GetErr != nil {
		return credvault.Credentials{}, v.GetErr
	}
	v.mu.RLock()
	entry, ok := v.entries[service][label]
	v.mu.RUnlock()
	if !ok {
		return credvault.Credentials{}, credvault.NotFoundError{Service: service, Label: label}
	}

	buf, err := entry.secret.Open()
	if err != nil {
		return credvault.Credentials{}, credvault.AccessError{Service: service, Message: "opening enclave", Err: err}
	}
	defer buf.Destroy()

	return credvault.Credentials{Account: entry.account, Secret: string(buf.Bytes())}, nil
}

// Delete removes the entry for (service, label), if present.
func (v *MemoryVault) Delete(service, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries[service], label)
}

var _ credvault.Vault = (*MemoryVault)(nil)
