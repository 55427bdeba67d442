package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

// DeriveSessionKeys expands the configured session secret into two
// independent 32-byte keys: one for HMAC signing of the session cookie and
// one for AES encryption of its content.
func DeriveSessionKeys(secret string) (authKey, encKey []byte, err error) {
	authKey, err = deriveKey(secret, "session-auth")
	if err != nil {
		return nil, nil, err
	}
	encKey, err = deriveKey(secret, "session-encryption")
	if err != nil {
		return nil, nil, err
	}
	return authKey, encKey, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveCSRFKey returns the 32-byte key used to sign CSRF tokens.
func DeriveCSRFKey(secret string) ([]byte, error) {
	return deriveKey(secret, "csrf")
}
