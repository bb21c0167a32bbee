package cryptdoc

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Codec turns document text into containers and back. It holds only
// immutable configuration and is safe for concurrent use.
type Codec struct {
	rand  io.Reader
	level int
}

// New creates a codec. A nil config selects DefaultConfig.
func New(config *Config) (*Codec, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	defaults := DefaultConfig()
	c := &Codec{
		rand:  config.Rand,
		level: config.CompressionLevel,
	}
	if c.rand == nil {
		c.rand = defaults.Rand
	}
	if c.level == 0 {
		c.level = defaults.CompressionLevel
	}
	return c, nil
}

var defaultCodec = &Codec{
	rand:  DefaultConfig().Rand,
	level: DefaultConfig().CompressionLevel,
}

// Encode encrypts plaintext under password with the default codec
func Encode(password, plaintext string) ([]byte, error) {
	return defaultCodec.Encode(password, plaintext)
}

// Decode decrypts a container with the default codec
func Decode(password string, data []byte) (string, error) {
	return defaultCodec.Decode(password, data)
}

// Encode compresses and encrypts plaintext under a fresh random salt and
// returns the complete container bytes.
func (c *Codec) Encode(password, plaintext string) ([]byte, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	salt, err := GenerateSalt(c.rand)
	if err != nil {
		return nil, err
	}

	compressed, err := Compress([]byte(plaintext), c.level)
	if err != nil {
		return nil, fmt.Errorf("failed to compress document: %w", err)
	}
	defer zero(compressed)

	material, err := DeriveKeyMaterial(password, salt)
	if err != nil {
		return nil, err
	}
	defer material.Zero()

	engine, err := NewCBCEngine(material.Key(), material.IV())
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher engine: %w", err)
	}

	ciphertext, err := engine.Encrypt(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt document: %w", err)
	}

	return NewContainer(salt, ciphertext).Bytes(), nil
}

// Decode verifies, decrypts and decompresses a container.
//
// The digest is checked before any key derivation, so a damaged file is
// reported as an IntegrityError whatever the password. With an intact
// digest, a cipher or padding failure is a DecryptionError; the payload
// must also open with a gzip header, which catches the roughly 1 in 256
// wrong keys whose padding happens to look valid.
func (c *Codec) Decode(password string, data []byte) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	container, err := ParseContainer(data)
	if err != nil {
		return "", err
	}

	if err := container.Verify(); err != nil {
		return "", err
	}

	material, err := DeriveKeyMaterial(password, container.Salt)
	if err != nil {
		return "", err
	}
	defer material.Zero()

	engine, err := NewCBCEngine(material.Key(), material.IV())
	if err != nil {
		return "", fmt.Errorf("failed to create cipher engine: %w", err)
	}

	compressed, err := engine.Decrypt(container.Ciphertext)
	if err != nil {
		return "", NewDecryptionError(err)
	}
	defer zero(compressed)

	if !hasGzipHeader(compressed) {
		return "", NewDecryptionError(ErrNotCompressed)
	}

	plain, err := Decompress(compressed)
	if err != nil {
		return "", NewFormatError("failed to decompress document", err)
	}
	defer zero(plain)

	if !utf8.Valid(plain) {
		return "", NewFormatError("failed to decode document", ErrInvalidUTF8)
	}

	return string(plain), nil
}
