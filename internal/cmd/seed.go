package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/operalote/internal/fixture"
)

// NewSeedCmd creates and returns the seed subcommand.
// It writes a synthetic legacy lot for trying out migrations.
func NewSeedCmd(a *app) *cobra.Command {
	var (
		outputPath  string
		lotName     string
		recordDir   string
		count       int
		echo        bool
		placeholder bool
		zipped      bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic legacy lot",
		Long: `Generate a lot the way the ingestion tooling leaves it on disk.

The lot root holds a record directory padded to six digits, an AITs evidence
directory with an "a" and a "b" image per record, an md5sum.txt manifest, and
a semicolon-delimited record file. With --echo, image names carry the
duplicate-digit artifact; with --zip, the lot is left as LOT.zip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outputPath, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			fx, err := fixture.Build(outputPath, fixture.Spec{
				Lot:         lotName,
				RecordDir:   recordDir,
				Count:       count,
				Echo:        echo,
				Placeholder: placeholder,
				Zip:         zipped,
			})
			if err != nil {
				return err
			}
			a.logger.Debug("seeded lot", zap.String("root", fx.Root), zap.Int("images", len(fx.Images)))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d records, %d images\n", fx.Root, len(fx.Images)/2, len(fx.Images))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().StringVarP(&lotName, "lot", "l", "", "Lot full form, e.g. L03313 (required)")
	cmd.Flags().StringVar(&recordDir, "record-dir", "", "Record directory name (default: payload padded to 6)")
	cmd.Flags().IntVarP(&count, "count", "c", 3, "Number of records")
	cmd.Flags().BoolVar(&echo, "echo", false, "Add the duplicate-digit artifact to image names")
	cmd.Flags().BoolVar(&placeholder, "placeholder", false, "Name the record file L00125.txt")
	cmd.Flags().BoolVar(&zipped, "zip", false, "Leave the lot as a zip archive")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("lot")

	return cmd
}
