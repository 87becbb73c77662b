package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lehigh-university-libraries/metsgen/internal/assets"
	"github.com/lehigh-university-libraries/metsgen/internal/mets"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var checkManifest bool

	cmd := &cobra.Command{
		Use:   "inspect <directory>",
		Short: "Show how a volume directory would be grouped into pages",
		Long: `Inspect lists the page groups metsgen derives from one volume directory,
without writing anything. Use it to check filename conventions before a run.

With --manifest, the existing <name>.mets.xml in the directory is parsed as well
and its file inventory is checked against its structural map.`,
		Example: `  # Show the page groups of one volume
  metsgen inspect ./vol_001

  # Also verify the manifest written by a previous run
  metsgen inspect ./vol_001 --manifest`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(cmd.OutOrStdout(), args[0], checkManifest)
		},
	}

	cmd.Flags().BoolVar(&checkManifest, "manifest", false, "Parse and check the existing manifest")

	return cmd
}

func executeInspect(out io.Writer, dir string, checkManifest bool) error {
	volume, err := assets.Scan(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Volume: %s\n", volume.Name)
	fmt.Fprintf(out, "Path:   %s\n\n", volume.Path)

	if volume.Empty() {
		fmt.Fprintln(out, "No recognized asset files (pdf, tif, tiff, jp2, j2k, xml).")
		return nil
	}

	rows := make([]table.Row, 0, len(volume.Groups))
	for _, g := range volume.SortedGroups() {
		var files, ids []string
		for _, ext := range g.Extensions {
			files = append(files, g.Files[ext])
			ids = append(ids, assets.FileID(g.Key, ext))
		}
		rows = append(rows, table.Row{g.Key, strings.Join(files, ", "), strings.Join(ids, ", ")})
	}

	fmt.Fprintln(out, pagesLayout.render(rows))

	alto := volume.FirstALTO()
	if alto == "" {
		alto = "(none)"
	}
	printLines(out,
		"",
		fmt.Sprintf("Pages: %d  Files: %d", len(volume.Groups), volume.FileCount()),
		fmt.Sprintf("ALTO file for dmdSec: %s", alto),
	)

	if len(volume.Collisions) > 0 {
		fmt.Fprintf(out, "\n⚠️  %d duplicate page asset(s), later files win:\n", len(volume.Collisions))
		for _, c := range volume.Collisions {
			fmt.Fprintf(out, "  %s [%s]: %s replaced by %s\n", c.Key, c.Extension, c.Replaced, c.Kept)
		}
	}

	if checkManifest {
		return checkManifestFile(out, volume)
	}
	return nil
}

func checkManifestFile(out io.Writer, volume *assets.Volume) error {
	path := mets.OutputPath(volume)
	doc, err := mets.ParseFile(path)
	if err != nil {
		return err
	}

	fileIDs := doc.FileIDs()
	pointerIDs := doc.PointerIDs()

	var orphaned, dangling []string
	for _, id := range fileIDs {
		if !slices.Contains(pointerIDs, id) {
			orphaned = append(orphaned, id)
		}
	}
	for _, id := range pointerIDs {
		if !slices.Contains(fileIDs, id) {
			dangling = append(dangling, id)
		}
	}

	fmt.Fprintf(out, "\nManifest: %s (created %s)\n", path, doc.Header.CreateDate)
	fmt.Fprintf(out, "  Files: %d  Pointers: %d  Pages: %d\n", len(fileIDs), len(pointerIDs), len(doc.Pages()))

	if len(orphaned) == 0 && len(dangling) == 0 {
		fmt.Fprintln(out, "  ✅ File inventory and structural map agree")
		return nil
	}

	if len(orphaned) > 0 {
		fmt.Fprintf(out, "  ❌ Files without pointers: %s\n", strings.Join(orphaned, ", "))
	}
	if len(dangling) > 0 {
		fmt.Fprintf(out, "  ❌ Pointers without files: %s\n", strings.Join(dangling, ", "))
	}
	return fmt.Errorf("manifest %s has %d orphaned file(s) and %d dangling pointer(s)", path, len(orphaned), len(dangling))
}

// printLines writes each line followed by a newline
func printLines(w io.Writer, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
