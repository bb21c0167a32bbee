package cryptdoc

import (
	"errors"
	"fmt"
)

// Error types represent the failure categories of encode and decode.
// Every failure returned by this package is one of them, so callers can
// branch on KindOf or the IsXxxError helpers instead of matching strings.

// ValidationError represents a caller-supplied parameter that was rejected
type ValidationError struct {
	Field   string // The field or parameter that failed validation
	Value   any    // The invalid value (never a password)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// FormatError represents bytes that are not a well-formed container, or a
// decrypted payload that is not valid compressed UTF-8 text
type FormatError struct {
	Path    string // File path, if applicable
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("format error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("format error: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IntegrityError represents a stored digest that does not match the
// ciphertext. It is raised before any decryption is attempted.
type IntegrityError struct {
	Path    string // File path, if applicable
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *IntegrityError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("integrity error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("integrity error: %s", e.Message)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// DecryptionError represents a cipher failure on a container whose digest
// checked out. The usual cause is a wrong password.
type DecryptionError struct {
	Path    string // File path, if applicable
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *DecryptionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decryption error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("decryption error: %s", e.Message)
}

func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// IOError represents a file system failure in the document store
type IOError struct {
	Operation string // "read", "write", "rename", "remove", "list", ...
	Path      string // File path
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("io error: %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("io error: %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Sentinel errors, reachable through errors.Is on the typed errors above
var (
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrContainerTooShort = errors.New("container shorter than header")
	ErrDigestMismatch    = errors.New("hashes do not match, possible corrupted file")
	ErrInvalidCiphertext = errors.New("ciphertext is not a whole number of blocks")
	ErrBadPadding        = errors.New("invalid padding")
	ErrNotCompressed     = errors.New("decrypted payload is not a compressed stream")
	ErrCorruptStream     = errors.New("corrupt compressed stream")
	ErrInvalidUTF8       = errors.New("document is not valid UTF-8")
	ErrDocumentTooLarge  = errors.New("document exceeds maximum size")
	ErrInvalidKey        = errors.New("invalid encryption key")
	ErrInvalidIV         = errors.New("invalid initialization vector")
	ErrNilConfig         = errors.New("config cannot be nil")
	ErrDocumentNotFound  = errors.New("document not found")
)

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewFormatError creates a new format error wrapping err
func NewFormatError(message string, err error) error {
	if err != nil {
		message = message + ": " + err.Error()
	}
	return &FormatError{
		Message: message,
		Err:     err,
	}
}

// NewIntegrityError creates a new integrity error wrapping err
func NewIntegrityError(err error) error {
	return &IntegrityError{
		Message: err.Error(),
		Err:     err,
	}
}

// NewDecryptionError creates a new decryption error wrapping err
func NewDecryptionError(err error) error {
	return &DecryptionError{
		Message: err.Error(),
		Err:     err,
	}
}

// NewIOError creates a new I/O error
func NewIOError(operation, path string, err error) error {
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsFormatError checks if an error is a format error
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsIntegrityError checks if an error is an integrity error
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// IsDecryptionError checks if an error is a decryption error
func IsDecryptionError(err error) bool {
	var de *DecryptionError
	return errors.As(err, &de)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// ErrorKind discriminates the failure categories
type ErrorKind uint8

const (
	// KindNone is the kind of a nil error
	KindNone ErrorKind = iota
	// KindValidation is a rejected password, name or parameter
	KindValidation
	// KindFormat is a truncated container or undecodable payload
	KindFormat
	// KindIntegrity is a digest mismatch
	KindIntegrity
	// KindDecryption is a cipher or padding failure
	KindDecryption
	// KindIO is a file system failure
	KindIO
	// KindUnknown is any error not produced by this package
	KindUnknown
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindFormat:
		return "format"
	case KindIntegrity:
		return "integrity"
	case KindDecryption:
		return "decryption"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// KindOf reports which category err belongs to. The outermost typed error
// in the chain wins.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *ValidationError:
			return KindValidation
		case *FormatError:
			return KindFormat
		case *IntegrityError:
			return KindIntegrity
		case *DecryptionError:
			return KindDecryption
		case *IOError:
			return KindIO
		}
	}
	return KindUnknown
}

// withPath fills in the Path of the outermost typed error in err's chain.
// Errors are freshly allocated per call, so mutating them is safe.
func withPath(err error, path string) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch te := e.(type) {
		case *FormatError:
			te.Path = path
			return err
		case *IntegrityError:
			te.Path = path
			return err
		case *DecryptionError:
			te.Path = path
			return err
		case *ValidationError, *IOError:
			return err
		}
	}
	return err
}
