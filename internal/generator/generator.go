package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/metsgen/internal/assets"
	"github.com/lehigh-university-libraries/metsgen/internal/mets"
)

// Options configures a batch run
type Options struct {
	// CreateDate is stamped into every manifest of the run
	CreateDate time.Time
	// DryRun builds manifests without writing them
	DryRun bool
	// FailFast stops the batch at the first failed directory
	FailFast bool
	// Out receives the progress lines; defaults to os.Stdout
	Out io.Writer
}

// Generator produces one METS manifest per volume directory
type Generator struct {
	opts Options
	out  io.Writer
}

// New creates a generator
func New(opts Options) *Generator {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.CreateDate.IsZero() {
		opts.CreateDate = time.Now()
	}
	return &Generator{
		opts: opts,
		out:  out,
	}
}

// Generate processes a single directory. Errors never escape: they are
// reported through the result status so the caller decides whether to go on.
func (g *Generator) Generate(ctx context.Context, dir string) Result {
	result := Result{
		Directory: filepath.Base(dir),
		Path:      dir,
	}

	if err := ctx.Err(); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	volume, err := assets.Scan(dir)
	if err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to scan directory: %w", err)
		return result
	}
	result.Directory = volume.Name
	result.Collisions = volume.Collisions

	if volume.Empty() {
		result.Status = StatusSkipped
		result.Err = ErrEmptyVolume
		return result
	}

	result.Volume = volume
	result.Pages = len(volume.Groups)
	result.Files = volume.FileCount()
	result.ManifestPath = mets.OutputPath(volume)

	doc := mets.Build(volume, mets.Options{CreateDate: g.opts.CreateDate})
	data, err := mets.Marshal(doc)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	if g.opts.DryRun {
		slog.Debug("Dry run, manifest not written", "dir", volume.Name, "bytes", len(data))
		result.Status = StatusPlanned
		return result
	}

	if err := mets.WriteFile(result.ManifestPath, data); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	slog.Debug("Manifest written", "dir", volume.Name, "path", result.ManifestPath, "pages", result.Pages, "files", result.Files)
	result.Status = StatusWritten
	return result
}

// Run generates manifests for every immediate subdirectory of root, in name order
func (g *Generator) Run(ctx context.Context, root string) (*Summary, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	dirs, err := listVolumeDirs(absRoot)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting METS generation", "root", absRoot, "directories", len(dirs), "dry_run", g.opts.DryRun)
	fmt.Fprintf(g.out, "📁 Scanning parent directory: %s\n\n", absRoot)

	summary := &Summary{Root: absRoot}

	for i, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		slog.Info("Processing directory", "dir", filepath.Base(dir), "progress", fmt.Sprintf("%d/%d", i+1, len(dirs)))

		result := g.Generate(ctx, dir)
		summary.add(result)
		g.report(result)

		if result.Status == StatusFailed && g.opts.FailFast {
			return summary, fmt.Errorf("%s: %w", result.Directory, result.Err)
		}
	}

	fmt.Fprintf(g.out, "\n🏁 Finished generating METS files.\n")
	slog.Info("METS generation complete",
		"written", summary.Written,
		"planned", summary.Planned,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return summary, nil
}

func (g *Generator) report(r Result) {
	switch r.Status {
	case StatusWritten:
		fmt.Fprintf(g.out, "✅ METS saved: %s\n", r.ManifestPath)
	case StatusPlanned:
		fmt.Fprintf(g.out, "📝 METS planned (dry run): %s\n", r.ManifestPath)
	case StatusSkipped:
		fmt.Fprintf(g.out, "⚠️  Skipping empty or incomplete folder: %s\n", r.Directory)
	case StatusFailed:
		slog.Error("Failed to generate METS", "dir", r.Directory, "err", r.Err)
		fmt.Fprintf(g.out, "❌ Failed to generate METS for %s: %v\n", r.Directory, r.Err)
	}
}

// listVolumeDirs returns the subdirectories of root sorted by name
func listVolumeDirs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil {
				isDir = target.IsDir()
			}
		}
		if isDir {
			dirs = append(dirs, path)
		}
	}

	return dirs, nil
}
