package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dendrascience/operalote/lot"
)

// NewScanCmd creates and returns the scan subcommand.
// It classifies every entry of a lot tree and prints the counts.
func NewScanCmd(a *app) *cobra.Command {
	var (
		root    string
		lotName string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify and count the files of a lot",
		Long: `Walk the lot ROOT/LOT and count its entries by class: checksum
manifests, record directory candidates, evidence assets and everything else.
Hidden files are counted as other.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := lot.Parse(lotName)
			if err != nil {
				return err
			}
			lotRoot := filepath.Join(root, id.FullForm())
			if _, err := os.Stat(lotRoot); err != nil {
				return err
			}

			layout := a.cfg.Engine().Layout
			c, err := layout.Scan(lotRoot)
			if err != nil {
				return fmt.Errorf("scan %s: %w", lotRoot, err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Lot %s\n", lotLabel(w, id.FullForm()))
			fmt.Fprintln(w, renderTable(
				[]string{"Class", "Entries"},
				[][]string{
					{"manifest", strconv.Itoa(c.Manifests)},
					{"record-dir-candidate", strconv.Itoa(c.RecordDirs)},
					{"evidence-asset", strconv.Itoa(c.Evidence)},
					{"other", strconv.Itoa(c.Other)},
					{"total", strconv.Itoa(c.Total())},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			fmt.Fprintf(w, "Evidence directories: %d, evidence bytes: %d\n", c.EvidenceDir, c.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Directory holding the lot roots")
	cmd.Flags().StringVarP(&lotName, "lot", "l", "", "Lot full form, e.g. L05453 (required)")
	cmd.MarkFlagRequired("lot")

	return cmd
}
