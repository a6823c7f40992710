// Package vault seals provider API keys at rest using a passphrase-derived
// secretbox key.
package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrSealedTooShort is returned when a sealed blob is too small to carry a
// nonce.
var ErrSealedTooShort = errors.New("sealed value too short")

// Vault encrypts and decrypts small secrets with XSalsa20-Poly1305. The key
// is derived from the passphrase with Argon2id over a passphrase-derived
// salt, so the same passphrase yields the same key across restarts without
// storing anything.
type Vault struct {
	key [32]byte
}

// New derives the vault key from passphrase.
func New(passphrase string) *Vault {
	salt := sha256.Sum256([]byte("swarmbase-vault:" + passphrase))
	derived := argon2.IDKey([]byte(passphrase), salt[:16], 1, 64*1024, 4, 32)

	v := &Vault{}
	copy(v.key[:], derived)
	return v
}

// Seal encrypts plaintext and returns nonce||ciphertext as one blob.
func (v *Vault) Seal(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &v.key), nil
}

// Open decrypts a blob produced by Seal.
func (v *Vault) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, ErrSealedTooShort
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &v.key)
	if !ok {
		return nil, errors.New("decrypt failed: wrong passphrase or corrupted value")
	}
	return plaintext, nil
}
