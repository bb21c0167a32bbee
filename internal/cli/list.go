package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List documents in the directory",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			store, err := a.openStore(false)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					a.log.Infof("Directory %s does not exist yet", a.cfg.Directory)
					fmt.Fprintln(out, "No documents")
					return nil
				}
				return err
			}

			docs, err := store.List()
			if err != nil {
				return err
			}
			a.log.Debugf("Found %d documents", len(docs))

			if len(docs) == 0 {
				fmt.Fprintln(out, "No documents")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
			for _, d := range docs {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Name, d.Size, d.ModTime.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}
