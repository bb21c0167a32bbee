package cryptdoc

import (
	"bytes"
	"fmt"
	"io"
)

// Container layout:
//
//	offset  length  field
//	0       32      salt
//	32      32      SHA-256(ciphertext)
//	64      n       AES-256-CBC(gzip(UTF-8 text))
//
// There is no magic number and no version byte.

// Container is the parsed form of an encrypted document
type Container struct {
	Salt       []byte // Salt for key derivation
	Digest     []byte // SHA-256 of Ciphertext
	Ciphertext []byte // Encrypted, compressed document
}

// NewContainer creates a container for ciphertext and computes its digest
func NewContainer(salt, ciphertext []byte) *Container {
	return &Container{
		Salt:       salt,
		Digest:     ComputeDigest(ciphertext),
		Ciphertext: ciphertext,
	}
}

// ParseContainer splits data into its fields. The returned slices alias
// data. Input shorter than HeaderSize is a FormatError.
func ParseContainer(data []byte) (*Container, error) {
	if len(data) < HeaderSize {
		return nil, &FormatError{
			Message: fmt.Sprintf("container is %d bytes, need at least %d", len(data), HeaderSize),
			Err:     ErrContainerTooShort,
		}
	}

	return &Container{
		Salt:       data[:SaltSize:SaltSize],
		Digest:     data[SaltSize:HeaderSize:HeaderSize],
		Ciphertext: data[HeaderSize:],
	}, nil
}

// Size returns the total size of the container in bytes
func (c *Container) Size() int {
	return HeaderSize + len(c.Ciphertext)
}

// Bytes serializes the container as salt ‖ digest ‖ ciphertext
func (c *Container) Bytes() []byte {
	out := make([]byte, 0, c.Size())
	out = append(out, c.Salt...)
	out = append(out, c.Digest...)
	out = append(out, c.Ciphertext...)
	return out
}

// WriteTo writes the container to the given writer in a single call
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// ReadFrom reads a whole container from r, replacing c's fields
func (c *Container) ReadFrom(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, fmt.Errorf("failed to read container: %w", err)
	}

	parsed, err := ParseContainer(buf.Bytes())
	if err != nil {
		return n, err
	}
	*c = *parsed
	return n, nil
}

// Validate checks the field sizes
func (c *Container) Validate() error {
	if len(c.Salt) != SaltSize {
		return &FormatError{
			Message: fmt.Sprintf("salt is %d bytes, expected %d", len(c.Salt), SaltSize),
		}
	}
	if len(c.Digest) != DigestSize {
		return &FormatError{
			Message: fmt.Sprintf("digest is %d bytes, expected %d", len(c.Digest), DigestSize),
		}
	}
	return nil
}

// Verify checks the stored digest against the ciphertext. It needs no
// password and never touches the cipher.
func (c *Container) Verify() error {
	if err := VerifyDigest(c.Ciphertext, c.Digest); err != nil {
		return NewIntegrityError(err)
	}
	return nil
}
