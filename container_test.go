package cryptdoc

import (
	"bytes"
	"errors"
	"testing"
)

func TestContainer_Layout(t *testing.T) {
	salt := testSalt(0xaa)
	ciphertext := bytes.Repeat([]byte{0x55}, 48)

	c := NewContainer(salt, ciphertext)
	data := c.Bytes()

	if len(data) != HeaderSize+len(ciphertext) || c.Size() != len(data) {
		t.Fatalf("container size = %d, want %d", len(data), HeaderSize+len(ciphertext))
	}
	if !bytes.Equal(data[:32], salt) {
		t.Error("bytes 0..32 should be the salt")
	}
	if !bytes.Equal(data[32:64], ComputeDigest(ciphertext)) {
		t.Error("bytes 32..64 should be SHA-256 of the ciphertext")
	}
	if !bytes.Equal(data[64:], ciphertext) {
		t.Error("bytes 64.. should be the ciphertext")
	}
}

func TestParseContainer(t *testing.T) {
	original := NewContainer(testSalt(1), []byte("0123456789abcdef"))

	parsed, err := ParseContainer(original.Bytes())
	if err != nil {
		t.Fatalf("ParseContainer() error = %v", err)
	}
	if !bytes.Equal(parsed.Salt, original.Salt) ||
		!bytes.Equal(parsed.Digest, original.Digest) ||
		!bytes.Equal(parsed.Ciphertext, original.Ciphertext) {
		t.Error("parsed fields do not match")
	}
	if err := parsed.Verify(); err != nil {
		t.Errorf("Verify() error = %v", err)
	}

	// Appending to a parsed field must not overwrite the next one
	_ = append(parsed.Salt, 0xff)
	if !bytes.Equal(parsed.Digest, original.Digest) {
		t.Error("appending to Salt clobbered Digest")
	}
}

func TestParseContainer_TooShort(t *testing.T) {
	for _, size := range []int{0, 1, 32, 63} {
		_, err := ParseContainer(make([]byte, size))
		if !IsFormatError(err) || !errors.Is(err, ErrContainerTooShort) {
			t.Errorf("ParseContainer(%d bytes) error = %v, want FormatError wrapping ErrContainerTooShort", size, err)
		}
	}

	c, err := ParseContainer(make([]byte, HeaderSize))
	if err != nil {
		t.Fatalf("ParseContainer(64 bytes) error = %v", err)
	}
	if len(c.Ciphertext) != 0 {
		t.Errorf("len(Ciphertext) = %d, want 0", len(c.Ciphertext))
	}
}

func TestContainer_Verify(t *testing.T) {
	data := NewContainer(testSalt(2), bytes.Repeat([]byte{9}, 32)).Bytes()

	for i := HeaderSize; i < len(data); i++ {
		tampered := append([]byte(nil), data...)
		tampered[i] ^= 0x01

		c, err := ParseContainer(tampered)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Verify(); !IsIntegrityError(err) {
			t.Fatalf("flip at offset %d: Verify() error = %v, want IntegrityError", i, err)
		}
	}

	// The salt is not covered by the digest
	tampered := append([]byte(nil), data...)
	tampered[0] ^= 0x01
	c, _ := ParseContainer(tampered)
	if err := c.Verify(); err != nil {
		t.Errorf("salt change should not fail Verify(), got %v", err)
	}
}

func TestContainer_WriteToReadFrom(t *testing.T) {
	original := NewContainer(testSalt(3), []byte("ciphertext-ciphertext-ciphertext"))

	var buf bytes.Buffer
	n, err := original.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if int(n) != original.Size() {
		t.Errorf("WriteTo() wrote %d bytes, want %d", n, original.Size())
	}

	var c Container
	if _, err := c.ReadFrom(&buf); err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if !bytes.Equal(c.Bytes(), original.Bytes()) {
		t.Error("ReadFrom() did not reproduce the container")
	}

	if _, err := c.ReadFrom(bytes.NewReader([]byte("short"))); !IsFormatError(err) {
		t.Errorf("ReadFrom(short) error = %v, want FormatError", err)
	}
}

func TestContainer_Validate(t *testing.T) {
	bad := &Container{Salt: make([]byte, 16), Digest: make([]byte, DigestSize)}
	if err := bad.Validate(); !IsFormatError(err) {
		t.Errorf("Validate() with short salt error = %v, want FormatError", err)
	}
	if _, err := bad.WriteTo(&bytes.Buffer{}); err == nil {
		t.Error("WriteTo() should refuse an invalid container")
	}

	bad = &Container{Salt: make([]byte, SaltSize), Digest: make([]byte, 8)}
	if err := bad.Validate(); !IsFormatError(err) {
		t.Errorf("Validate() with short digest error = %v, want FormatError", err)
	}
}
