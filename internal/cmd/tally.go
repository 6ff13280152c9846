package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dendrascience/operalote/internal/config"
)

// NewTallyCmd creates and returns the tally subcommand.
func NewTallyCmd(a *app) *cobra.Command {
	var (
		root    string
		lotName string
	)

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "Count infraction codes in a lot",
		Long: `Count the records of each infraction code in the lot ROOT/LOT.

The code is the last field of every non-blank record line. Lines whose last
field is not numeric are not counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := a.engine().Tally(root, lotName)
			if err != nil {
				return err
			}
			printTally(cmd.OutOrStdout(), a.cfg, lotName, counts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Directory holding the lot roots")
	cmd.Flags().StringVarP(&lotName, "lot", "l", "", "Lot full form, e.g. L05453 (required)")
	cmd.MarkFlagRequired("lot")

	return cmd
}

// printTally lists codes by descending count, then by code.
func printTally(w io.Writer, cfg config.Config, lotName string, counts map[string]int) {
	codes := make([]string, 0, len(counts))
	total := 0
	for code, n := range counts {
		codes = append(codes, code)
		total += n
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})

	rows := make([][]string, 0, len(codes)+1)
	for _, code := range codes {
		rows = append(rows, []string{code, cfg.Describe(code), strconv.Itoa(counts[code])})
	}
	rows = append(rows, []string{"", "Total", strconv.Itoa(total)})

	fmt.Fprintf(w, "Lot %s\n", lotLabel(w, lotName))
	fmt.Fprintln(w, renderTable(
		[]string{"Code", "Description", "Records"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))
}
