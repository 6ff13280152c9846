package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/operalote/internal/config"
	"github.com/dendrascience/operalote/internal/logging"
	"github.com/dendrascience/operalote/migrate"
	"github.com/dendrascience/operalote/version"
)

// app carries the state every subcommand shares once the root command's
// PersistentPreRunE has run.
type app struct {
	configPath string
	verbose    bool
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *zap.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fd := os.Stderr.Fd()
	if cfg.Log.Format == "console" && !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		a.logger, err = logging.Plain(cfg.Log.Level)
	} else {
		a.logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	}
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) engine() *migrate.Engine {
	return migrate.New(a.cfg.Engine(), a.logger)
}

// NewRootCmd creates and returns the root cobra command for the operalote CLI.
// It sets up all subcommands, command groups, and the shared configuration
// and logging flags.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "operalote",
		Short: "operalote - re-identify traffic-infraction evidence lots on disk",
		Long: `operalote moves a lot of traffic-infraction evidence from one identifier
to another. It renames the lot root and its record directories, rewrites every
image name that embeds the old identifier (repairing the duplicate-digit echo
left by ingestion), and rewrites the semicolon-delimited record files to match.
Checksum manifests are never modified.

Use subcommands to perform different operations:
  - migrate: Move a lot to a new identifier
  - tally: Count infraction codes in a lot
  - edit-codes: Replace one infraction code with another
  - verify: Check that a lot is fully migrated
  - scan: Classify and count the files of a lot
  - normalize: Show how a single file name would be rewritten
  - seed: Generate a synthetic legacy lot
  - version: Print build metadata`,
		Version: version.GetFullVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to operalote.yaml (searched in . and ~/.config/operalote by default)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log decision traces at debug level")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format: console or json")

	groupMigration := "migration"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupMigration,
		Title: "Lot Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	migrateCmd := NewMigrateCmd(a)
	tallyCmd := NewTallyCmd(a)
	editCodesCmd := NewEditCodesCmd(a)
	verifyCmd := NewVerifyCmd(a)
	scanCmd := NewScanCmd(a)
	normalizeCmd := NewNormalizeCmd(a)
	seedCmd := NewSeedCmd(a)
	versionCmd := NewVersionCmd()

	migrateCmd.GroupID = groupMigration
	tallyCmd.GroupID = groupMigration
	editCodesCmd.GroupID = groupMigration
	verifyCmd.GroupID = groupMigration
	scanCmd.GroupID = groupUtilities
	normalizeCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tallyCmd)
	rootCmd.AddCommand(editCodesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
