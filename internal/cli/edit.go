package cli

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newEditCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit NAME",
		Short: "Edit a document in your editor",
		Long: `Decrypts NAME into a private scratch file, opens it in the configured
editor and re-encrypts it when the editor exits with changes. The scratch
file is overwritten and removed afterwards. A missing NAME starts a new,
empty document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			store, err := a.openStore(true)
			if err != nil {
				return err
			}
			exists, err := store.Exists(name)
			if err != nil {
				return err
			}

			pw, err := a.password(store, name)
			if err != nil {
				return err
			}

			var original string
			if exists {
				if original, err = store.Load(name, pw); err != nil {
					return err
				}
			}

			scratch, err := os.CreateTemp("", "cryptdoc-*.txt")
			if err != nil {
				return fmt.Errorf("creating scratch file: %w", err)
			}
			path := scratch.Name()
			defer func() {
				if err := wipeFile(path); err != nil {
					a.log.Warnf("Could not remove scratch file %s: %v", path, err)
				}
			}()

			_, err = scratch.WriteString(original)
			if cerr := scratch.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("writing scratch file: %w", err)
			}

			editor := a.cfg.EditorCommand()
			a.log.Infof("Opening %s with %s", name, editor)
			if err := a.runEditor(editor, path, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				return err
			}

			edited, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading scratch file: %w", err)
			}
			if !utf8.Valid(edited) {
				return fmt.Errorf("edited text is not valid UTF-8; document left unchanged")
			}

			if exists && string(edited) == original {
				fmt.Fprintf(cmd.OutOrStdout(), "No changes to %s\n", name)
				return nil
			}

			if err := store.Save(name, pw, string(edited)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", checkMark, store.Path(name))
			return nil
		},
	}
}
