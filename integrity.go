package cryptdoc

import (
	"crypto/sha256"
	"crypto/subtle"
)

// ComputeDigest returns the SHA-256 digest of data. Containers store the
// digest of the ciphertext, not of the plaintext; it detects corruption
// but is not keyed and proves nothing about who wrote the file.
func ComputeDigest(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// VerifyDigest recomputes the digest of data and compares it with stored
// in constant time. A stored digest of the wrong length is a mismatch.
func VerifyDigest(data, stored []byte) error {
	if len(stored) != DigestSize {
		return ErrDigestMismatch
	}
	if subtle.ConstantTimeCompare(ComputeDigest(data), stored) != 1 {
		return ErrDigestMismatch
	}
	return nil
}
