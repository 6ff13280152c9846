package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/records"
	"github.com/dendrascience/operalote/report"
)

// NewMigrateCmd creates and returns the migrate subcommand.
func NewMigrateCmd(a *app) *cobra.Command {
	var (
		root       string
		from       string
		to         string
		year       string
		noYear     bool
		width      int
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move a lot to a new identifier",
		Long: `Move the lot FROM under ROOT to the identifier TO.

The lot root, its record directories and every file name embedding the old
identifier are renamed, and the record files are rewritten to reference the
new names. Running the same migration again changes nothing, so an
interrupted run is completed by repeating it. Migrating a lot to itself
standardizes its padding and repairs duplicate-digit artifacts.

If ROOT/FROM is missing but ROOT/FROM.zip exists, the archive is extracted
first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("width") {
				a.cfg.Width = width
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			y := records.Year{Enabled: a.cfg.Year.Enabled, Value: a.cfg.Year.Value}
			if cmd.Flags().Changed("year") {
				if !lot.IsDigits(year) {
					return fmt.Errorf("--year must be digits, got %q", year)
				}
				y = records.Year{Enabled: true, Value: year}
			}
			if noYear {
				y = records.Year{}
			}

			rep, err := a.engine().Migrate(root, from, to, y)
			if rep != nil {
				printReport(cmd.OutOrStdout(), rep)
				if reportPath != "" {
					if serr := rep.Save(reportPath); serr != nil {
						return serr
					}
				}
			}
			if err != nil {
				return err
			}
			return rep.Err()
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Directory holding the lot roots")
	cmd.Flags().StringVar(&from, "from", "", "Current lot identifier, e.g. L03313 (required)")
	cmd.Flags().StringVar(&to, "to", "", "New lot identifier, e.g. L05453 (required)")
	cmd.Flags().StringVar(&year, "year", "", "Year suffix appended to the date field of matched records")
	cmd.Flags().BoolVar(&noYear, "no-year", false, "Do not append a year suffix")
	cmd.Flags().IntVar(&width, "width", 7, "Canonical padding width")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the migration report as JSON to this path")

	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagsMutuallyExclusive("year", "no-year")

	return cmd
}

var reportKinds = []report.Kind{
	report.Extracted,
	report.Renamed,
	report.Merged,
	report.Rewritten,
	report.Collision,
	report.Vanished,
	report.Malformed,
	report.Failed,
}

// printReport writes a per-kind summary, then every entry that needs an
// operator's attention.
func printReport(w io.Writer, rep *report.Report) {
	fmt.Fprintf(w, "Migration %s: %s -> %s\n", rep.RunID, lotLabel(w, rep.From), lotLabel(w, rep.To))

	rows := make([][]string, 0, len(reportKinds))
	for _, k := range reportKinds {
		if n := rep.Count(k); n > 0 {
			rows = append(rows, []string{string(k), strconv.Itoa(n)})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "Nothing to do: lot is already migrated")
		return
	}
	fmt.Fprintln(w, renderTable([]string{"Outcome", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	for e := range rep.Iterate {
		switch e.Kind {
		case report.Collision, report.Malformed, report.Failed:
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}
