package vaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/iscsikit/iscsiconf/pkg/credvault"
)

const (
	testService = "iSCSI CHAP"
	testLabel   = "iqn.2020-01.com.example:disk1"
)

// runVaultContract checks the behavior every credvault.Vault must share.
func runVaultContract(t *testing.T, vault credvault.Vault) {
	t.Run("MissingEntryIsNotFound", func(t *testing.T) {
		_, err := vault.GetSecret(testService, "iqn.absent")
		require.Error(t, err)
		assert.True(t, credvault.IsNotFound(err))
	})

	t.Run("SetThenGetRoundTrip", func(t *testing.T) {
		require.NoError(t, vault.SetSecret(testService, "u1", testLabel, "s1"))

		creds, err := vault.GetSecret(testService, testLabel)
		require.NoError(t, err)
		assert.Equal(t, credvault.Credentials{Account: "u1", Secret: "s1"}, creds)
	})

	t.Run("OverwriteUpdatesBothFields", func(t *testing.T) {
		require.NoError(t, vault.SetSecret(testService, "u2", testLabel, "s2"))

		creds, err := vault.GetSecret(testService, testLabel)
		require.NoError(t, err)
		assert.Equal(t, credvault.Credentials{Account: "u2", Secret: "s2"}, creds)
	})

	t.Run("ServicesAreIsolated", func(t *testing.T) {
		_, err := vault.GetSecret("another service", testLabel)
		require.Error(t, err)
		assert.True(t, credvault.IsNotFound(err))
	})
}

func TestMemoryVault(t *testing.T) {
	vault := NewMemoryVault()
	runVaultContract(t, vault)

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, vault.SetSecret(testService, "u", "label", "s"))
		vault.Delete(testService, "label")
		_, err := vault.GetSecret(testService, "label")
		assert.True(t, credvault.IsNotFound(err))
	})

	t.Run("ErrorHooks", func(t *testing.T) {
		vault.GetErr = assert.AnError
		_, err := vault.GetSecret(testService, testLabel)
		assert.ErrorIs(t, err, assert.AnError)
		vault.GetErr = nil
	})
}

func TestKeyringVault(t *testing.T) {
	// MockInit swaps the real platform store for an in-process one so the
	// test never touches the user's keychain.
	keyring.MockInit()

	vault := NewKeyringVault()
	runVaultContract(t, vault)

	t.Run("ForeignEntryTreatedAsBareSecret", func(t *testing.T) {
		// An entry written by another tool will not be JSON; the raw value
		// comes back as the secret with no account.
		require.NoError(t, keyring.Set(testService, "legacy", "plain-secret"))

		creds, err := vault.GetSecret(testService, "legacy")
		require.NoError(t, err)
		assert.Equal(t, credvault.Credentials{Secret: "plain-secret"}, creds)
	})
}
