package cli

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newSaveCommand(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Encrypt text into a document",
		Long: `Encrypts text read from --from (or standard input) into NAME.enc.

An existing document is replaced atomically with a freshly salted
container. A new document asks for its password twice.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var (
				content []byte
				err     error
			)
			if from == "" || from == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(from)
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			if !utf8.Valid(content) {
				return fmt.Errorf("input is not valid UTF-8 text")
			}

			store, err := a.openStore(true)
			if err != nil {
				return err
			}

			pw, err := a.password(store, name)
			if err != nil {
				return err
			}
			if err := store.Save(name, pw, string(content)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", checkMark, store.Path(name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "read text from FILE instead of standard input")
	return cmd
}
