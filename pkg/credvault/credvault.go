// Package credvault defines the contract for the platform credential vault
// that holds CHAP shared secrets.
//
// Secrets never live in the configuration trees themselves; the trees only
// record the authentication method ("None" or "CHAP"). The secret value and
// the account it belongs to are delegated entirely to a Vault implementation,
// keyed by the owning node's IQN.
//
// Implementations live in internal/vaults: a keyring-backed vault for the OS
// credential store and a memory vault for tests and headless environments.
package credvault

import "errors"

// Credentials is an account/secret pair retrieved from the vault.
//
// Implementations and callers must never log the Secret field directly; use
// the logging.Secret wrapper when it has to appear in a message.
type Credentials struct {
	// Account is the CHAP user name the secret belongs to.
	Account string

	// Secret is the CHAP shared secret.
	Secret string
}

// Vault is a secure secret store keyed by (service, label).
//
// The service identifies this application's credential namespace (a fixed
// constant for CHAP entries); the label identifies the owning node, normally
// its IQN. Lookups for absent labels return NotFoundError, which is a normal
// outcome, not a failure.
type Vault interface {
	// SetSecret creates or updates the vault entry for (service, label),
	// recording both the account and the secret. An existing entry's secret
	// and account are overwritten.
	SetSecret(service, account, label, secret string) error

	// GetSecret retrieves the credentials stored under (service, label).
	// Returns NotFoundError when no entry exists.
	GetSecret(service, label string) (Credentials, error)
}

// NotFoundError indicates that no vault entry exists for a label.
type NotFoundError struct {
	// Service is the credential namespace that was searched.
	Service string

	// Label is the label that could not be found.
	Label string
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return "vault entry not found for " + `"` + e.Label + `"` + " in service " + `"` + e.Service + `"`
}

// AccessError indicates that the vault refused or failed the operation:
// a locked keychain, a denied prompt, or an unreachable secret service.
type AccessError struct {
	// Service is the credential namespace involved.
	Service string

	// Message describes the failure.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e AccessError) Error() string {
	msg := "vault access failed for service " + `"` + e.Service + `"`
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e AccessError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
