// Package logger provides levelled console logging for the cryptdoc CLI.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always written to the error stream. Messages
// never include passwords or document text.
//
// # Usage
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Loaded %d documents", n)
package logger
