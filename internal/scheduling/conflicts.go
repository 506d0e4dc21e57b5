// Package scheduling detects double-booking of technicians. Jobs carry a
// single scheduled instant with no duration, so "overlap" is approximated by
// a ±1 day window around the candidate dates; the pad absorbs day-boundary
// and timezone effects without a per-pair precise comparison.
package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

// WindowPad is how far the bounding window extends beyond the earliest and
// latest candidate dates.
const WindowPad = 24 * time.Hour

// JobSource is the read contract the detector needs from the store: the
// technician's non-terminal jobs scheduled inside a window, minus an
// exclusion set.
type JobSource interface {
	FindScheduledForTechnician(ctx context.Context, technicianID uint, from, to time.Time, excludeIDs []uint) ([]models.Job, error)
}

// Conflict describes an existing job that collides with a candidate
// assignment.
type Conflict struct {
	JobID         uint      `json:"job_id"`
	Title         string    `json:"title"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

// ConflictError carries the full conflict list for caller diagnostics
type ConflictError struct {
	TechnicianID uint
	Conflicts    []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = fmt.Sprintf("job %d (%s) at %s", c.JobID, c.Title, c.ScheduledDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("technician %d already has scheduled work: %s",
		e.TechnicianID, strings.Join(parts, "; "))
}

// Detector finds scheduling conflicts for a technician
type Detector struct {
	source JobSource
}

// NewDetector creates a new conflict detector backed by the given source
func NewDetector(source JobSource) *Detector {
	return &Detector{source: source}
}

// FindConflicts returns the technician's existing active jobs whose
// scheduled date falls inside the window spanned by the candidates' dates.
// Candidates without a scheduled date need no check; excludeIDs removes the
// jobs currently being reassigned so a job never conflicts with itself. An
// empty result means no conflict.
func (d *Detector) FindConflicts(ctx context.Context, technicianID uint, candidates []models.Job, excludeIDs []uint) ([]Conflict, error) {
	var earliest, latest time.Time
	dated := 0
	for _, job := range candidates {
		if job.ScheduledDate == nil {
			continue
		}
		date := *job.ScheduledDate
		if dated == 0 || date.Before(earliest) {
			earliest = date
		}
		if dated == 0 || date.After(latest) {
			latest = date
		}
		dated++
	}
	if dated == 0 {
		return nil, nil
	}

	from := earliest.Add(-WindowPad)
	to := latest.Add(WindowPad)

	existing, err := d.source.FindScheduledForTechnician(ctx, technicianID, from, to, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query technician schedule: %w", err)
	}

	conflicts := make([]Conflict, 0, len(existing))
	for _, job := range existing {
		if job.ScheduledDate == nil {
			continue
		}
		conflicts = append(conflicts, Conflict{
			JobID:         job.ID,
			Title:         job.Title,
			ScheduledDate: *job.ScheduledDate,
		})
	}
	return conflicts, nil
}
