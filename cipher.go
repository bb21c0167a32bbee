package cryptdoc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"fmt"
)

// CBCEngine encrypts with AES-256 in CBC mode and PKCS#7 padding. The
// engine is bound to one key and IV; containers get both from the
// password-derived KeyMaterial, which is fresh per salt.
type CBCEngine struct {
	block cipher.Block
	iv    []byte
}

// NewCBCEngine creates a new AES-256-CBC cipher engine
func NewCBCEngine(key, iv []byte) (*CBCEngine, error) {
	if err := ValidateKey(key, KeySize); err != nil {
		return nil, err
	}
	if err := ValidateIV(iv); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &CBCEngine{
		block: block,
		iv:    append([]byte(nil), iv...),
	}, nil
}

// Encrypt pads plaintext to a whole number of blocks and encrypts it.
// The output is always between 1 and 16 bytes longer than the input.
func (e *CBCEngine) Encrypt(plaintext []byte) ([]byte, error) {
	padded := pkcs7Pad(plaintext, e.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(e.block, e.iv).CryptBlocks(ciphertext, padded)
	zero(padded)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext and strips the padding. A wrong key almost
// always surfaces here as ErrBadPadding.
func (e *CBCEngine) Decrypt(ciphertext []byte) ([]byte, error) {
	bs := e.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, ErrInvalidCiphertext
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(e.block, e.iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, bs)
	if err != nil {
		zero(plaintext)
		return nil, err
	}
	return unpadded, nil
}

// BlockSize returns the AES block size (16 bytes)
func (e *CBCEngine) BlockSize() int {
	return e.block.BlockSize()
}

// Overhead returns the number of padding bytes Encrypt adds for n bytes
func (e *CBCEngine) Overhead(n int) int {
	bs := e.BlockSize()
	return bs - n%bs
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad checks every padding byte without branching on their values
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrBadPadding
	}

	good := 1
	for _, b := range data[len(data)-n:] {
		good &= subtle.ConstantTimeByteEq(b, byte(n))
	}
	if good != 1 {
		return nil, ErrBadPadding
	}

	return data[:len(data)-n], nil
}
