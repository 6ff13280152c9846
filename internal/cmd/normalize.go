package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/operalote/lot"
)

// NewNormalizeCmd creates and returns the normalize subcommand.
func NewNormalizeCmd(a *app) *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "normalize NAME...",
		Short: "Show how file names would be rewritten",
		Long: `Print the name each NAME would receive when its lot moves from FROM
to TO, along with the rule that decided it. Nothing on disk is touched.`,
		Example: `  operalote normalize 0003889889000011pfb.jpg --from 03889 --to 03889`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := lot.Parse(from)
			if err != nil {
				return err
			}
			next, err := lot.Parse(to)
			if err != nil {
				return err
			}
			norm := a.engine().Normalizer()
			for _, name := range args {
				out, rule := norm.NormalizeRule(name, old, next)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", name, out, rule)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Current lot identifier (required)")
	cmd.Flags().StringVar(&to, "to", "", "New lot identifier (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}
