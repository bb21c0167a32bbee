// Package cli implements the cryptdoc command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/absfs/cryptdoc"
	"github.com/absfs/cryptdoc/internal/config"
	"github.com/absfs/cryptdoc/internal/dirfs"
	logger "github.com/absfs/cryptdoc/internal/logging"
	"github.com/absfs/cryptdoc/internal/passphrase"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands of one invocation
type app struct {
	verbose    bool
	debug      bool
	configPath string

	cfg       *config.Config
	log       logger.Logger
	passwords *passphrase.Reader

	// runEditor is replaced in tests
	runEditor func(editor, path string, stdin io.Reader, stdout, stderr io.Writer) error
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			logger.Logger{}.Errorf("%v", err)
		}
		return 1
	}
	return 0
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{runEditor: runEditor})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cryptdoc",
		Short: "Keep password-protected text documents",
		Long: `cryptdoc stores plain-text documents as password-protected .enc files.

Each file is independent: it carries its own random salt and an integrity
digest, so any single document can be copied, verified or opened on its own.
Passwords are read from the CRYPTDOC_PASSWORD environment variable or
prompted for, and are never stored.

Examples:
  # List documents in the current directory
  cryptdoc list

  # Create or replace a document from a file
  cryptdoc save notes --from notes.txt

  # Edit a document in $EDITOR
  cryptdoc edit notes

  # Check every document for corruption without a password
  cryptdoc verify --all`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.debug, "debug", "d", false, "enable debug output")
	flags.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cryptdoc/config.yaml)")
	config.RegisterFlags(flags)

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newSaveCommand(a),
		newEditCommand(a),
		newVerifyCommand(a),
		newRemoveCommand(a),
	)

	// Errors are reported once here so every subcommand gets the same
	// wording for each failure kind
	for _, sub := range root.Commands() {
		run := sub.RunE
		if run == nil {
			continue
		}
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err != nil && !errors.Is(err, errReported) {
				a.log.Errorf("%s", describe(err))
				a.log.Debugf("%+v", err)
				return &reportedError{err}
			}
			return err
		}
	}

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.log = logger.Logger{
		Verbose: a.verbose,
		Debug:   a.debug,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
	}
	if a.passwords == nil {
		a.passwords = &passphrase.Reader{Prompt: cmd.ErrOrStderr()}
	}

	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			a.log.Debugf("No default config path: %v", err)
		}
		path = p
	}

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		a.log.Errorf("Failed to load config: %v", err)
		return errReported
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		a.log.Errorf("Invalid flags: %v", err)
		return errReported
	}
	if err := cfg.Validate(); err != nil {
		a.log.Errorf("Invalid configuration: %v", err)
		return errReported
	}

	a.cfg = cfg
	a.log.Debugf("Using config %q, directory %q, level %d, workers %d",
		path, cfg.Directory, cfg.CompressionLevel, cfg.Workers)
	return nil
}

// errReported marks errors that were already shown to the user
var errReported = errors.New("error already reported")

// reportedError keeps the original error reachable through errors.Is and
// errors.As while marking it as reported
type reportedError struct {
	err error
}

func (e *reportedError) Error() string        { return e.err.Error() }
func (e *reportedError) Unwrap() error        { return e.err }
func (e *reportedError) Is(target error) bool { return target == errReported }

// openStore opens the configured directory. With create the directory is
// made if missing; without it a missing directory is reported as
// os.ErrNotExist.
func (a *app) openStore(create bool) (*cryptdoc.Store, error) {
	dir, err := filepath.Abs(a.cfg.Directory)
	if err != nil {
		return nil, err
	}
	if create {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	fs, err := dirfs.New(dir)
	if err != nil {
		return nil, err
	}
	codec, err := a.cfg.Codec()
	if err != nil {
		return nil, err
	}

	a.log.Debugf("Opened store at %s", dir)
	return cryptdoc.NewStore(fs, "/", codec)
}

// describe turns a library error into the message shown to the user
func describe(err error) string {
	switch cryptdoc.KindOf(err) {
	case cryptdoc.KindValidation:
		return err.Error()
	case cryptdoc.KindFormat:
		return "document is damaged or not a cryptdoc file: " + err.Error()
	case cryptdoc.KindIntegrity:
		return "document failed its integrity check and may be corrupted: " + err.Error()
	case cryptdoc.KindDecryption:
		return "wrong password, or the document is corrupted: " + err.Error()
	case cryptdoc.KindIO:
		if errors.Is(err, cryptdoc.ErrDocumentNotFound) {
			return "no such document: " + err.Error()
		}
		return err.Error()
	default:
		return err.Error()
	}
}
