package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates and returns the verify subcommand.
// It checks a lot against the invariants a completed migration guarantees.
func NewVerifyCmd(a *app) *cobra.Command {
	var (
		root    string
		lotName string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a lot is fully migrated",
		Long: `Check the lot ROOT/LOT for leftovers of an incomplete migration.

The lot root must exist under LOT, hold exactly one record directory named
with the canonical padded identifier, contain no file name that still needs
normalizing, and every record must carry the canonical identifier and
reference only images that exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			violations, err := a.engine().Verify(root, lotName)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(violations) == 0 {
				fmt.Fprintf(w, "Lot %s is valid\n", lotLabel(w, lotName))
				return nil
			}

			rows := make([][]string, 0, len(violations))
			for _, v := range violations {
				rows = append(rows, []string{v.Invariant.String(), v.Path, v.Detail})
			}
			fmt.Fprintf(w, "Lot %s has %d violations:\n", lotLabel(w, lotName), len(violations))
			fmt.Fprintln(w, renderTable([]string{"Invariant", "Path", "Detail"}, rows, nil))
			return fmt.Errorf("lot %s: %d violations", lotName, len(violations))
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Directory holding the lot roots")
	cmd.Flags().StringVarP(&lotName, "lot", "l", "", "Lot full form, e.g. L05453 (required)")
	cmd.MarkFlagRequired("lot")

	return cmd
}
