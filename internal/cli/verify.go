package cli

import (
	"errors"
	"fmt"

	"github.com/absfs/cryptdoc"
	"github.com/spf13/cobra"
)

// errVerifyFailed is returned after the per-document results are printed
var errVerifyFailed = &reportedError{errors.New("verification failed")}

func newVerifyCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "verify [NAME...]",
		Short: "Check documents for corruption",
		Long: `Recomputes each document's integrity digest. No password is needed
and nothing is decrypted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return fmt.Errorf("name one or more documents, or pass --all")
			}

			store, err := a.openStore(false)
			if err != nil {
				return err
			}

			var names []string
			if !all {
				names = args
			}

			out := cmd.OutOrStdout()
			s, cleanup := startSpinner(a, out, "Verifying documents...")
			results, err := store.VerifyAll(names, a.cfg.Parallel())
			if err != nil {
				s.FinalMSG = crossMark + " Verification could not run\n"
				cleanup()
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if failed == 0 {
				s.FinalMSG = fmt.Sprintf("%s %d documents verified\n", checkMark, len(results))
			} else {
				s.FinalMSG = fmt.Sprintf("%s %d of %d documents failed\n", crossMark, failed, len(results))
			}
			cleanup()

			for _, r := range results {
				if r.Err == nil {
					a.log.Infof("%s ok", r.Name)
					fmt.Fprintf(out, "  %s %s\n", checkMark, r.Name)
					continue
				}
				fmt.Fprintf(out, "  %s %s: %s\n", crossMark, r.Name, cryptdoc.KindOf(r.Err))
				a.log.Debugf("%s: %v", r.Name, r.Err)
			}

			if failed > 0 {
				return errVerifyFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "verify every document in the directory")
	return cmd
}
