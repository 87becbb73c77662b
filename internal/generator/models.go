package generator

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/metsgen/internal/assets"
)

// Status is the outcome of processing one directory
type Status string

const (
	StatusWritten Status = "written"
	StatusPlanned Status = "planned" // dry run
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result describes what happened to one candidate directory
type Result struct {
	Directory    string
	Path         string
	Status       Status
	ManifestPath string
	Pages        int
	Files        int
	Collisions   []assets.Collision
	Volume       *assets.Volume
	Err          error
}

// Summary aggregates the results of a batch run
type Summary struct {
	Root    string
	Results []Result
	Written int
	Planned int
	Skipped int
	Failed  int
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusWritten:
		s.Written++
	case StatusPlanned:
		s.Planned++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Err joins the errors of failed directories; nil when none failed
func (s *Summary) Err() error {
	var errs []error
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %w", r.Directory, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Volumes returns the scanned volumes that produced a manifest
func (s *Summary) Volumes() []*assets.Volume {
	var volumes []*assets.Volume
	for _, r := range s.Results {
		if r.Volume != nil && (r.Status == StatusWritten || r.Status == StatusPlanned) {
			volumes = append(volumes, r.Volume)
		}
	}
	return volumes
}
