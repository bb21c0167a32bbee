package cryptdoc

import (
	"crypto/rand"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Format constants. Changing any of these breaks compatibility with
// previously written containers; there is no version byte to fall back on.
const (
	// SaltSize is the length of the random salt stored at offset 0
	SaltSize = 32

	// DigestSize is the length of the SHA-256 digest stored at offset 32
	DigestSize = 32

	// HeaderSize is the fixed prefix of every container (salt + digest)
	HeaderSize = SaltSize + DigestSize

	// KeySize is the AES-256 key length taken from the derived material
	KeySize = 32

	// IVSize is the CBC initialization vector length taken after the key
	IVSize = 16

	// DerivedSize is the total PBKDF2 output length
	DerivedSize = KeySize + IVSize

	// Iterations is the PBKDF2 iteration count baked into the format
	Iterations = 30000

	// Extension is the file extension used for containers on disk
	Extension = ".enc"

	// MaxDocumentSize caps the inflated size of a document (256 MiB)
	MaxDocumentSize = 256 << 20
)

// Config contains configuration for a Codec
type Config struct {
	// Rand is the source for salts. Defaults to crypto/rand.Reader.
	Rand io.Reader

	// CompressionLevel is a gzip level. Zero selects gzip.DefaultCompression;
	// the level never affects whether a container can be decoded.
	CompressionLevel int
}

// DefaultConfig returns the configuration used by the package-level
// Encode and Decode functions.
func DefaultConfig() *Config {
	return &Config{
		Rand:             rand.Reader,
		CompressionLevel: gzip.DefaultCompression,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.CompressionLevel != 0 {
		if err := ValidateCompressionLevel(c.CompressionLevel); err != nil {
			return err
		}
	}
	return nil
}
