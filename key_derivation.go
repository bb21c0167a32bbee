package cryptdoc

import (
	"crypto/rand"
	"crypto/sha1"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// KeyMaterial holds the 48 bytes derived from a password and salt: the
// AES-256 key followed by the CBC initialization vector. It is never
// stored and should be zeroed as soon as the cipher has been built.
type KeyMaterial struct {
	buf []byte
}

// DeriveKeyMaterial runs PBKDF2 over the UTF-8 bytes of password.
//
// The PRF is HMAC-SHA1 and the iteration count is Iterations. Both are
// part of the container format, so they cannot be strengthened without
// making every existing document unreadable.
func DeriveKeyMaterial(password string, salt []byte) (*KeyMaterial, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := ValidateSalt(salt); err != nil {
		return nil, err
	}

	pw := []byte(password)
	defer zero(pw)

	return &KeyMaterial{
		buf: pbkdf2.Key(pw, salt, Iterations, DerivedSize, sha1.New),
	}, nil
}

// Key returns the 32-byte cipher key
func (m *KeyMaterial) Key() []byte {
	return m.buf[:KeySize]
}

// IV returns the 16-byte initialization vector
func (m *KeyMaterial) IV() []byte {
	return m.buf[KeySize:DerivedSize]
}

// Zero wipes the material. Key and IV return zeroes afterwards.
func (m *KeyMaterial) Zero() {
	if m == nil {
		return
	}
	zero(m.buf)
}

// GenerateSalt reads SaltSize bytes from r, or from crypto/rand when r is nil
func GenerateSalt(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
