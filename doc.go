// Package cryptdoc stores text documents as password-protected,
// self-contained encrypted files and reads them back, failing closed on a
// wrong password or a damaged file.
//
// # Overview
//
// A document is encoded in four steps: the UTF-8 text is gzip-compressed,
// a key and IV are derived from the password and a fresh random salt,
// the compressed bytes are encrypted with AES-256-CBC, and a SHA-256
// digest of the ciphertext is computed. The result is written as one
// container. Decoding runs the same steps in reverse, checking the digest
// before any key is derived.
//
// # Basic Usage
//
//	data, err := cryptdoc.Encode("correct-horse", "hello world")
//	if err != nil {
//	    return err
//	}
//
//	text, err := cryptdoc.Decode("correct-horse", data)
//	switch cryptdoc.KindOf(err) {
//	case cryptdoc.KindNone:
//	    fmt.Println(text)
//	case cryptdoc.KindDecryption:
//	    // most likely a wrong password; ask again
//	case cryptdoc.KindIntegrity, cryptdoc.KindFormat:
//	    // the file is damaged
//	}
//
// Documents on disk are managed through a Store over any
// absfs.FileSystem:
//
//	store, _ := cryptdoc.NewStore(fs, "/notes", nil)
//	err := store.Save("diary", password, text)
//	text, err := store.Load("diary", password)
//
// # File Format
//
// Encrypted files use the following format:
//   - Salt (32 bytes): random, new on every save
//   - Digest (32 bytes): SHA-256 of the ciphertext
//   - Ciphertext (variable): AES-256-CBC with PKCS#7 padding
//
// Key and IV are the first 32 and next 16 bytes of PBKDF2-HMAC-SHA1 with
// 30000 iterations. There is no magic number or version byte; these
// constants are the format, and changing any of them makes existing files
// unreadable. Files use the .enc extension.
//
// # Errors
//
// Every failure is one of ValidationError (empty password or bad name),
// FormatError (truncated container, undecodable payload), IntegrityError
// (digest mismatch), DecryptionError (wrong password) or, from the Store,
// IOError. KindOf maps an error to its ErrorKind. Nothing is retried.
//
// # Security Considerations
//
// Protected Against:
//   - Reading documents at rest without the password
//   - Accidental corruption, detected before decryption
//   - Silent return of garbage text on a wrong password
//
// Not Protected Against:
//   - Deliberate tampering by someone who recomputes the digest (it is
//     not keyed)
//   - Online guessing: there is no rate limiting
//   - Memory disclosure while a document is open
package cryptdoc
