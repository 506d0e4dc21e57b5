// Package lifecycle defines the job status state machine.
//
// Valid status graph:
//
//	OPEN ──► ASSIGNED ──► IN_PROGRESS ──► COMPLETED
//	  │          │  ▲          │
//	  │          ▼  └──────────┤
//	  │        OPEN            │
//	  └────────────────────────┴──► CANCELLED
//
// COMPLETED and CANCELLED are terminal states. Every status mutation in the
// codebase goes through Validate; no other component decides transition
// legality.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

// transitions lists every allowed (from → to) pair.
var transitions = map[models.JobStatus][]models.JobStatus{
	models.JobStatusOpen:       {models.JobStatusAssigned, models.JobStatusCancelled},
	models.JobStatusAssigned:   {models.JobStatusInProgress, models.JobStatusOpen, models.JobStatusCancelled},
	models.JobStatusInProgress: {models.JobStatusCompleted, models.JobStatusAssigned, models.JobStatusCancelled},
	// COMPLETED and CANCELLED are terminal, no outgoing transitions
}

// AllowedTargets returns the set of statuses reachable from the given status.
// Terminal states return an empty slice.
func AllowedTargets(from models.JobStatus) []models.JobStatus {
	targets := transitions[from]
	out := make([]models.JobStatus, len(targets))
	copy(out, targets)
	return out
}

// IsValidTransition reports whether moving from → to is permitted by the
// state machine. A same-status transition is always valid (no-op).
func IsValidTransition(from, to models.JobStatus) bool {
	if from == to {
		return true
	}
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// TransitionError reports a rejected status transition, carrying the current
// status and its full allowed-target set for caller diagnostics.
type TransitionError struct {
	JobID   uint
	Current models.JobStatus
	Target  models.JobStatus
}

func (e *TransitionError) Error() string {
	allowed := AllowedTargets(e.Current)
	if len(allowed) == 0 {
		return fmt.Sprintf("job %d is in terminal state %s and cannot change status", e.JobID, e.Current)
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("job %d cannot move from %s to %s (allowed: %s)",
		e.JobID, e.Current, e.Target, strings.Join(names, ", "))
}

// Validate checks a requested transition and returns a TransitionError when
// the state machine rejects it.
func Validate(jobID uint, from, to models.JobStatus) error {
	if IsValidTransition(from, to) {
		return nil
	}
	return &TransitionError{JobID: jobID, Current: from, Target: to}
}
