package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSessionKeys(t *testing.T) {
	auth1, enc1, err := DeriveSessionKeys("correct horse battery staple")
	require.NoError(t, err)

	assert.Len(t, auth1, 32)
	assert.Len(t, enc1, 32)
	assert.NotEqual(t, auth1, enc1, "auth and encryption keys must differ")

	auth2, enc2, err := DeriveSessionKeys("correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, auth1, auth2)
	assert.Equal(t, enc1, enc2)
}

func TestDeriveSessionKeysDifferentSecrets(t *testing.T) {
	auth1, _, err := DeriveSessionKeys("secret-one")
	require.NoError(t, err)
	auth2, _, err := DeriveSessionKeys("secret-two")
	require.NoError(t, err)

	assert.NotEqual(t, auth1, auth2)
}

func TestDeriveCSRFKey(t *testing.T) {
	key, err := DeriveCSRFKey("secret")
	require.NoError(t, err)
	assert.Len(t, key, 32)

	authKey, encKey, err := DeriveSessionKeys("secret")
	require.NoError(t, err)
	assert.NotEqual(t, authKey, key)
	assert.NotEqual(t, encKey, key)
}
