// Package passphrase obtains document passwords from the environment or
// an interactive no-echo prompt.
package passphrase

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// EnvVar is consulted before prompting
const EnvVar = "CRYPTDOC_PASSWORD"

// ErrMismatch is returned when the confirmation differs from the password
var ErrMismatch = errors.New("passwords do not match")

// ErrEmpty is returned when the user enters nothing
var ErrEmpty = errors.New("password cannot be empty")

// Reader reads passwords. Prompts go to Prompt; the zero value uses
// os.Stderr and the controlling terminal.
type Reader struct {
	Prompt io.Writer

	// readPassword is replaced in tests
	readPassword func() ([]byte, error)
}

// Read returns the password from EnvVar or prompts for it once.
func (r *Reader) Read(prompt string) ([]byte, error) {
	if env := os.Getenv(EnvVar); env != "" {
		return []byte(env), nil
	}
	return r.prompt(prompt)
}

// ReadWithConfirm is Read for new documents: an interactive password must
// be typed twice.
func (r *Reader) ReadWithConfirm(prompt, confirmPrompt string) ([]byte, error) {
	if env := os.Getenv(EnvVar); env != "" {
		return []byte(env), nil
	}

	pw, err := r.prompt(prompt)
	if err != nil {
		return nil, err
	}

	confirm, err := r.prompt(confirmPrompt)
	if err != nil {
		Zero(pw)
		return nil, err
	}
	defer Zero(confirm)

	if !bytes.Equal(pw, confirm) {
		Zero(pw)
		return nil, ErrMismatch
	}
	return pw, nil
}

func (r *Reader) prompt(prompt string) ([]byte, error) {
	out := r.Prompt
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprint(out, prompt)

	read := r.readPassword
	if read == nil {
		read = readTerminal
	}
	pw, err := read()
	fmt.Fprintln(out)
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, ErrEmpty
	}
	return pw, nil
}

// readTerminal reads from stdin when it is a terminal, otherwise from
// /dev/tty so piped input stays untouched
func readTerminal() ([]byte, error) {
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		if runtime.GOOS == "windows" {
			return nil, fmt.Errorf("password must be set via %s when stdin is piped", EnvVar)
		}
		return nil, fmt.Errorf("cannot prompt for password: stdin is piped and /dev/tty is unavailable; set %s", EnvVar)
	}
	defer tty.Close()

	return term.ReadPassword(int(tty.Fd()))
}

// Zero overwrites b
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
