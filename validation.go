package cryptdoc

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Input validation helpers

// ValidatePassword rejects an empty password. The value is never recorded
// in the returned error.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{
			Field:   "password",
			Message: "password cannot be empty",
			Err:     ErrEmptyPassword,
		}
	}
	return nil
}

// ValidateBuffer checks if a buffer is valid (non-nil and has expected size)
func ValidateBuffer(buf []byte, name string, minSize int) error {
	if buf == nil {
		return &ValidationError{
			Field:   name,
			Message: "buffer cannot be nil",
		}
	}
	if minSize > 0 && len(buf) < minSize {
		return &ValidationError{
			Field:   name,
			Value:   len(buf),
			Message: fmt.Sprintf("buffer too small: got %d bytes, need at least %d bytes", len(buf), minSize),
		}
	}
	return nil
}

// ValidateSalt checks that a salt has the fixed format size
func ValidateSalt(salt []byte) error {
	if len(salt) != SaltSize {
		return &ValidationError{
			Field:   "salt",
			Value:   len(salt),
			Message: fmt.Sprintf("invalid salt size: got %d bytes, expected %d bytes", len(salt), SaltSize),
		}
	}
	return nil
}

// ValidateKey checks if a key has the correct size
func ValidateKey(key []byte, expectedSize int) error {
	if key == nil {
		return &ValidationError{
			Field:   "key",
			Message: "key cannot be nil",
			Err:     ErrInvalidKey,
		}
	}

	if len(key) != expectedSize {
		return &ValidationError{
			Field:   "key",
			Value:   len(key),
			Message: fmt.Sprintf("invalid key size: got %d bytes, expected %d bytes", len(key), expectedSize),
			Err:     ErrInvalidKey,
		}
	}

	return nil
}

// ValidateIV checks that an initialization vector is one cipher block
func ValidateIV(iv []byte) error {
	if len(iv) != IVSize {
		return &ValidationError{
			Field:   "iv",
			Value:   len(iv),
			Message: fmt.Sprintf("invalid iv size: got %d bytes, expected %d bytes", len(iv), IVSize),
			Err:     ErrInvalidIV,
		}
	}
	return nil
}

// ValidateCompressionLevel checks that level is accepted by the gzip writer
func ValidateCompressionLevel(level int) error {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return &ValidationError{
			Field:   "compression_level",
			Value:   level,
			Message: fmt.Sprintf("compression level must be between %d and %d", gzip.HuffmanOnly, gzip.BestCompression),
		}
	}
	return nil
}

// ValidateDocumentName checks that name can be used as a file name inside
// a store directory. Names are given without the extension.
func ValidateDocumentName(name string) error {
	switch {
	case name == "":
		return &ValidationError{
			Field:   "name",
			Message: "document name cannot be empty",
		}
	case name == "." || name == "..":
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: "document name cannot be a relative directory",
		}
	case strings.ContainsAny(name, `/\`):
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: "document name cannot contain path separators",
		}
	case strings.HasPrefix(name, "."):
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: "document name cannot start with a dot",
		}
	case strings.ContainsRune(name, 0):
		return &ValidationError{
			Field:   "name",
			Message: "document name cannot contain NUL",
		}
	}
	return nil
}
