package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEditCodesCmd creates and returns the edit-codes subcommand.
func NewEditCodesCmd(a *app) *cobra.Command {
	var (
		root    string
		lotName string
		from    string
		to      string
	)

	cmd := &cobra.Command{
		Use:   "edit-codes",
		Short: "Replace one infraction code with another",
		Long: `Replace the infraction code FROM with TO in every record of the lot
ROOT/LOT. Only the last field of a record is compared. Files without a
matching record are not rewritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, lines, err := a.engine().BulkEditCodes(root, lotName, from, to)
			fmt.Fprintf(cmd.OutOrStdout(), "Replaced %s with %s: %d records in %d files\n", from, to, lines, files)
			return err
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Directory holding the lot roots")
	cmd.Flags().StringVarP(&lotName, "lot", "l", "", "Lot full form, e.g. L05453 (required)")
	cmd.Flags().StringVar(&from, "from", "", "Code to replace (required)")
	cmd.Flags().StringVar(&to, "to", "", "Replacement code (required)")
	cmd.MarkFlagRequired("lot")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}
