package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lehigh-university-libraries/metsgen/internal/config"
	"github.com/lehigh-university-libraries/metsgen/internal/generator"
	"github.com/lehigh-university-libraries/metsgen/internal/mets"
	"github.com/lehigh-university-libraries/metsgen/internal/report"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	createDate    string
	dryRun        bool
	failFast      bool
	reportPath    string
	inventoryPath string
	summary       bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [directory]",
		Short: "Write a METS manifest into every volume directory",
		Long: `Scans each immediate subdirectory of the given directory (default: the
current directory) and writes <name>/<name>.mets.xml for every subdirectory
that contains pdf, tif, tiff, jp2, j2k, or xml files. Subdirectories without
such files are skipped.

A failing directory does not stop the run unless --fail-fast is set; the
command exits non-zero if any directory failed.`,
		Example: `  # Generate manifests for every volume under the current directory
  metsgen generate

  # Use a fixed creation date and keep a YAML run report
  metsgen generate /data/scans --create-date 2025-04-07T00:00:00 --report run.yaml

  # Preview without writing, then print a summary table
  metsgen generate /data/scans --dry-run --summary

  # Export a Parquet inventory of every asset referenced by the manifests
  metsgen generate /data/scans --inventory assets.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			if !cmd.Flags().Changed("create-date") {
				opts.createDate = config.Load().CreateDate
			}

			return executeGenerate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.createDate, "create-date", "", "metsHdr CREATEDATE (2006-01-02T15:04:05, RFC 3339, or \"now\"; env "+config.EnvCreateDate+")")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Build manifests without writing them")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first directory that fails")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a run report (.yaml, .yml, or .json)")
	cmd.Flags().StringVar(&opts.inventoryPath, "inventory", "", "Write a Parquet inventory of all referenced assets")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a summary table after the run")

	return cmd
}

func executeGenerate(cmd *cobra.Command, root string, opts generateOptions) error {
	createDate, err := config.ParseCreateDate(opts.createDate, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	gen := generator.New(generator.Options{
		CreateDate: createDate,
		DryRun:     opts.dryRun,
		FailFast:   opts.failFast,
		Out:        out,
	})

	summary, runErr := gen.Run(cmd.Context(), root)
	if summary == nil {
		return runErr
	}

	if opts.summary {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderSummaryTable(summary))
	}

	if opts.reportPath != "" {
		err := report.Save(opts.reportPath, summary, report.RunConfig{
			CreateDate: mets.FormatCreateDate(createDate),
			DryRun:     opts.dryRun,
			FailFast:   opts.failFast,
		})
		if err != nil {
			return err
		}
		slog.Info("Run report saved", "path", opts.reportPath)
		fmt.Fprintf(out, "📄 Run report saved: %s\n", opts.reportPath)
	}

	if opts.inventoryPath != "" {
		rows, err := report.WriteInventory(opts.inventoryPath, summary.Volumes())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "📦 Inventory saved: %s (%d files)\n", opts.inventoryPath, rows)
	}

	if runErr != nil {
		return runErr
	}
	return summary.Err()
}

func renderSummaryTable(summary *generator.Summary) string {
	var pages, files, collisions int
	rows := make([]table.Row, 0, len(summary.Results))
	for _, r := range summary.Results {
		note := r.ManifestPath
		if r.Status == generator.StatusFailed || r.Status == generator.StatusSkipped {
			note = r.Err.Error()
		}
		pages += r.Pages
		files += r.Files
		collisions += len(r.Collisions)
		rows = append(rows, table.Row{r.Directory, string(r.Status), r.Pages, r.Files, len(r.Collisions), note})
	}

	footer := table.Row{
		fmt.Sprintf("%d directories", len(summary.Results)),
		fmt.Sprintf("%d failed", summary.Failed),
		pages, files, collisions, "",
	}
	return summaryLayout.withFooter(footer).render(rows)
}
