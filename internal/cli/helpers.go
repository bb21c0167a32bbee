package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/absfs/cryptdoc"
	"github.com/absfs/cryptdoc/internal/passphrase"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	checkMark = color.GreenString("✓")
	crossMark = color.RedString("✗")
)

// password reads the password for name. New documents need the password
// typed twice.
func (a *app) password(store *cryptdoc.Store, name string) (string, error) {
	exists, err := store.Exists(name)
	if err != nil {
		return "", err
	}

	var pw []byte
	if exists {
		pw, err = a.passwords.Read(fmt.Sprintf("Password for %s: ", name))
	} else {
		a.log.Infof("Creating new document %s", name)
		pw, err = a.passwords.ReadWithConfirm(
			fmt.Sprintf("New password for %s: ", name), "Confirm password: ")
	}
	if err != nil {
		return "", err
	}
	defer passphrase.Zero(pw)
	return string(pw), nil
}

// startSpinner shows progress on w unless verbose output would interleave
// with it. The returned cleanup stops the spinner and prints FinalMSG.
func startSpinner(a *app, w io.Writer, message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	_ = s.Color("cyan")

	quiet := !a.verbose && !a.debug
	if quiet {
		s.Start()
	}

	cleanup := func() {
		final := s.FinalMSG
		s.FinalMSG = ""
		if quiet {
			s.Stop()
		}
		if final != "" {
			if !strings.HasSuffix(final, "\n") {
				final += "\n"
			}
			fmt.Fprint(w, final)
		}
	}
	return s, cleanup
}

// runEditor launches editor on path attached to the given streams. The
// editor string may carry arguments, as in "code --wait".
func runEditor(editor, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", editor, err)
	}
	return nil
}

// wipeFile overwrites a plaintext scratch file before removing it
func wipeFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err == nil {
		f.Write(make([]byte, info.Size()))
		f.Sync()
		f.Close()
	}
	return os.Remove(path)
}
