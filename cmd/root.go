package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/metsgen/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "metsgen",
		Short: "Generate METS manifests for directories of scanned page assets",
		Long: `metsgen builds one METS XML manifest per volume directory.

Every immediate subdirectory of the target directory is treated as a volume.
Page images (TIFF, JPEG 2000), PDFs, and ALTO XML files are grouped into pages
by filename and described in <volume>/<volume>.mets.xml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			config.LoadDotEnv()

			cfg := config.Load()
			level, err := config.ParseLogLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("%s: %w", config.EnvLogLevel, err)
			}
			if verbose {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newInspectCmd())

	return cmd
}
