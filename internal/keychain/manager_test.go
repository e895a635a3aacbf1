package keychain

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerTokenLifecycle(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	m := NewManagerWithRing(ring)

	_, err := m.LoadAccessToken()
	require.True(t, errors.Is(err, ErrNoToken))

	require.NoError(t, m.SaveAccessToken("abc"))
	tok, err := m.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	item, err := ring.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(item.Data))

	require.NoError(t, m.SaveAccessToken("def"))
	tok, err = m.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, "def", tok)

	require.NoError(t, m.ClearAuth())
	_, err = m.LoadAccessToken()
	assert.True(t, errors.Is(err, ErrNoToken))

	// clearing twice is a no-op
	require.NoError(t, m.ClearAuth())
}

func TestManagerRejectsEmptyToken(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))
	require.Error(t, m.SaveAccessToken(""))
}

func TestManagerEmptyStoredValueIsAbsent(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring([]keyring.Item{{Key: KeyAccessToken}}))
	_, err := m.LoadAccessToken()
	assert.True(t, errors.Is(err, ErrNoToken))
}
