package cli

import (
	"io"

	"github.com/absfs/cryptdoc/internal/passphrase"
	"github.com/spf13/cobra"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Decrypt a document and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			store, err := a.openStore(false)
			if err != nil {
				return err
			}
			// Corruption is reported before asking for a password
			if err := store.Verify(name); err != nil {
				return err
			}

			pw, err := a.passwords.Read("Password for " + name + ": ")
			if err != nil {
				return err
			}
			text, err := store.Load(name, string(pw))
			passphrase.Zero(pw)
			if err != nil {
				return err
			}

			a.log.Debugf("Decrypted %s (%d bytes)", name, len(text))
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}
