// Package errors provides user-facing error types with actionable
// suggestions for the configuration store and its backends.
package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with
// helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context.
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// VaultError enhances credential vault failures with context and a
// platform-appropriate suggestion.
func VaultError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("credential vault error during %s", operation),
		Suggestion: vaultSuggestion(err),
		Err:        err,
	}
}

// vaultSuggestion returns a helpful suggestion based on the vault error.
func vaultSuggestion(err error) string {
	if err == nil {
		return ""
	}
	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "locked") {
		return "Unlock your keychain/keyring and retry"
	}
	if strings.Contains(errStr, "denied") || strings.Contains(errStr, "canceled") {
		return "Approve the keychain access prompt, or grant this tool access to the credential store"
	}
	if strings.Contains(errStr, "dbus") || strings.Contains(errStr, "secret service") {
		return "Make sure a Secret Service daemon (gnome-keyring, KWallet) is running on the session bus"
	}
	if strings.Contains(errStr, "not found") {
		return "No stored CHAP credentials for this node; configure authentication first"
	}

	return ""
}
