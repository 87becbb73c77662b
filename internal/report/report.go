package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/metsgen/internal/assets"
	"github.com/lehigh-university-libraries/metsgen/internal/generator"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a report path with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported report format (use .yaml, .yml, or .json)")

// RunConfig represents the configuration section of the run report
type RunConfig struct {
	Root       string `yaml:"root" json:"root"`
	CreateDate string `yaml:"createdate" json:"create_date"`
	DryRun     bool   `yaml:"dryrun" json:"dry_run"`
	FailFast   bool   `yaml:"failfast" json:"fail_fast"`
	Timestamp  string `yaml:"timestamp" json:"timestamp"`
}

// DirectoryResult represents the outcome for a single volume directory
type DirectoryResult struct {
	Directory  string             `yaml:"directory" json:"directory"`
	Status     string             `yaml:"status" json:"status"`
	Manifest   string             `yaml:"manifest,omitempty" json:"manifest,omitempty"`
	Pages      int                `yaml:"pages" json:"pages"`
	Files      int                `yaml:"files" json:"files"`
	Collisions []assets.Collision `yaml:"collisions,omitempty" json:"collisions,omitempty"`
	Error      string             `yaml:"error,omitempty" json:"error,omitempty"`
}

// Totals summarizes the run
type Totals struct {
	Written int `yaml:"written" json:"written"`
	Planned int `yaml:"planned" json:"planned"`
	Skipped int `yaml:"skipped" json:"skipped"`
	Failed  int `yaml:"failed" json:"failed"`
}

// RunReport represents the complete run report
type RunReport struct {
	Config  RunConfig         `yaml:"config" json:"config"`
	Totals  Totals            `yaml:"totals" json:"totals"`
	Results []DirectoryResult `yaml:"results" json:"results"`
}

// New converts a generator summary into a report
func New(summary *generator.Summary, cfg RunConfig) *RunReport {
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	if cfg.Root == "" {
		cfg.Root = summary.Root
	}

	rep := &RunReport{
		Config: cfg,
		Totals: Totals{
			Written: summary.Written,
			Planned: summary.Planned,
			Skipped: summary.Skipped,
			Failed:  summary.Failed,
		},
		Results: make([]DirectoryResult, 0, len(summary.Results)),
	}

	for _, r := range summary.Results {
		dr := DirectoryResult{
			Directory:  r.Directory,
			Status:     string(r.Status),
			Manifest:   r.ManifestPath,
			Pages:      r.Pages,
			Files:      r.Files,
			Collisions: r.Collisions,
		}
		if r.Err != nil {
			dr.Error = r.Err.Error()
		}
		rep.Results = append(rep.Results, dr)
	}

	return rep
}

// Save writes the run report to path; the format follows the file extension
func Save(path string, summary *generator.Summary, cfg RunConfig) error {
	rep := New(summary, cfg)

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(rep)
	case ".json":
		data, err = json.MarshalIndent(rep, "", "  ")
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}

// Load reads a run report written by Save
func Load(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var rep RunReport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rep)
	case ".json":
		err = json.Unmarshal(data, &rep)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &rep, nil
}
