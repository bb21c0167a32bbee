package cryptdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// gzipMagic is the member header every compressed payload starts with:
// ID1, ID2 and CM=8 (deflate).
var gzipMagic = []byte{0x1f, 0x8b, 0x08}

// Compress wraps data in a single gzip member. A zero level selects
// gzip.DefaultCompression.
func Compress(data []byte, level int) ([]byte, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	if err := ValidateCompressionLevel(level); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compression: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a gzip stream. Any malformed input, including a
// checksum or length trailer mismatch, is reported as ErrCorruptStream.
// Output beyond MaxDocumentSize is rejected with ErrDocumentTooLarge.
func Decompress(data []byte) ([]byte, error) {
	if !hasGzipHeader(data) {
		return nil, ErrNotCompressed
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	defer zr.Close()

	var out bytes.Buffer
	n, err := io.Copy(&out, io.LimitReader(zr, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	if n > MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}

	return out.Bytes(), nil
}

func hasGzipHeader(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}
