// Package services holds the business logic for job operations: the bulk
// coordinator, the single-job status path, and the wiring between access
// checks, the transition table, conflict detection, and the atomic store.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/access"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/repos"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/events"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/lifecycle"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/scheduling"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/types"
)

// JobStore is the persistence contract the service depends on. The
// repository implements it; tests substitute a fake.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uint) (*models.Job, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Job, error)
	WriteAtomic(ctx context.Context, writes []repos.JobWrite) error
	FindScheduledForTechnician(ctx context.Context, technicianID uint, from, to time.Time, excludeIDs []uint) ([]models.Job, error)
}

// PropertyStore resolves the property relations the access guard needs
type PropertyStore interface {
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Property, error)
}

// Dispatcher receives best-effort side effects after a successful commit
type Dispatcher interface {
	JobAssigned(e events.Event)
	JobReassigned(e events.Event)
	JobStarted(e events.Event)
	JobCompleted(e events.Event)
	JobRejected(e events.Event)
	DashboardStale(managerID uint)
}

// JobService provides business logic for job operations
type JobService struct {
	jobs       JobStore
	properties PropertyStore
	detector   *scheduling.Detector
	dispatcher Dispatcher
}

// NewJobService creates a new job service instance
func NewJobService(jobs JobStore, properties PropertyStore, dispatcher Dispatcher) *JobService {
	return &JobService{
		jobs:       jobs,
		properties: properties,
		detector:   scheduling.NewDetector(jobs),
		dispatcher: dispatcher,
	}
}

// CreateJob creates a new job on a property the actor manages. Status
// defaults to OPEN, or ASSIGNED when a technician is given; an assignment
// with a scheduled date runs the conflict check before anything is written.
func (s *JobService) CreateJob(ctx context.Context, actor access.Actor, req *types.CreateJobRequest) (*models.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	property, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, types.NewValidationError("property_id", fmt.Sprintf("property %d does not exist", req.PropertyID))
	}
	if actor.Role != models.UserRoleManager || property.ManagerID != actor.ID {
		return nil, &access.DeniedError{Reason: "only the property's manager may create jobs"}
	}

	priority := req.Priority
	if priority == "" {
		priority = models.JobPriorityMedium
	}

	job := &models.Job{
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.JobStatusOpen,
		Priority:      priority,
		PropertyID:    req.PropertyID,
		UnitID:        req.UnitID,
		CreatedByID:   actor.ID,
		ScheduledDate: req.ScheduledDate,
		EstimatedCost: req.EstimatedCost,
		Notes:         req.Notes,
	}
	if req.AssignedToID != nil {
		job.Status = models.JobStatusAssigned
		job.AssignedToID = req.AssignedToID

		conflicts, err := s.detector.FindConflicts(ctx, *req.AssignedToID, []models.Job{*job}, nil)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &scheduling.ConflictError{TechnicianID: *req.AssignedToID, Conflicts: conflicts}
		}
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if job.AssignedToID != nil {
		s.dispatcher.JobAssigned(s.event(job, property, *job.AssignedToID, 0, ""))
	}
	s.dispatcher.DashboardStale(property.ManagerID)
	return job, nil
}

// GetJob retrieves a job, applying the actor's read access
func (s *JobService) GetJob(ctx context.Context, actor access.Actor, id uint) (*models.Job, error) {
	job, property, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, job, property, access.OpRead).Err(); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateStatus applies a single-job status change: access check, no-op
// short-circuit, transition validation, atomic write, then side effects. A
// COMPLETED transition sets completedDate the first time only.
func (s *JobService) UpdateStatus(ctx context.Context, actor access.Actor, id uint, target models.JobStatus) (*models.Job, error) {
	if !target.Valid() {
		return nil, types.NewValidationError("status", "invalid job status: "+string(target))
	}

	job, property, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := access.Authorize(actor, job, property, access.OpUpdate)
	if err := decision.PermitFields([]string{"status"}); err != nil {
		return nil, err
	}

	// Idempotent no-op: same status skips validation, the write, and every
	// side effect.
	if job.Status == target {
		return job, nil
	}

	if err := lifecycle.Validate(job.ID, job.Status, target); err != nil {
		return nil, err
	}

	write := s.statusWrite(job, target)
	if err := s.jobs.WriteAtomic(ctx, []repos.JobWrite{write}); err != nil {
		return nil, fmt.Errorf("failed to update job %d: %w", id, err)
	}

	from := job.Status
	applyStatus(job, target)
	s.fireStatusEffects(job, property, from, target, actor, "")
	s.dispatcher.DashboardStale(property.ManagerID)
	return job, nil
}

// RejectJob is the constrained technician transition ASSIGNED → OPEN with
// the assignment cleared. Only the currently assigned technician may reject,
// and only before work has started.
func (s *JobService) RejectJob(ctx context.Context, actor access.Actor, id uint, reason string) (*models.Job, error) {
	if actor.Role != models.UserRoleTechnician {
		return nil, &access.DeniedError{Reason: "only the assigned technician may reject a job"}
	}

	job, property, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, job, property, access.OpUpdate).Err(); err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusAssigned {
		return nil, &lifecycle.TransitionError{JobID: job.ID, Current: job.Status, Target: models.JobStatusOpen}
	}

	technicianID := *job.AssignedToID
	write := s.statusWrite(job, models.JobStatusOpen)
	if err := s.jobs.WriteAtomic(ctx, []repos.JobWrite{write}); err != nil {
		return nil, fmt.Errorf("failed to reject job %d: %w", id, err)
	}

	applyStatus(job, models.JobStatusOpen)
	s.dispatcher.JobRejected(s.event(job, property, technicianID, 0, reason))
	s.dispatcher.DashboardStale(property.ManagerID)
	return job, nil
}

// BulkAssign assigns a technician to every targeted job as one atomic unit.
// Terminal jobs reject the whole batch; OPEN jobs move to ASSIGNED through
// the transition table; scheduled dates run the conflict check with the
// targets themselves excluded.
func (s *JobService) BulkAssign(ctx context.Context, actor access.Actor, req *types.BulkAssignRequest) (*types.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	jobs, properties, err := s.loadBatch(ctx, req.JobIDs)
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		job := &jobs[i]
		if err := access.Authorize(actor, job, properties[job.PropertyID], access.OpAssign).Err(); err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			return nil, &lifecycle.TransitionError{JobID: job.ID, Current: job.Status, Target: models.JobStatusAssigned}
		}
		if job.Status == models.JobStatusOpen {
			if err := lifecycle.Validate(job.ID, job.Status, models.JobStatusAssigned); err != nil {
				return nil, err
			}
		}
	}

	excludeIDs := jobIDs(jobs)
	conflicts, err := s.detector.FindConflicts(ctx, req.TechnicianID, jobs, excludeIDs)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &scheduling.ConflictError{TechnicianID: req.TechnicianID, Conflicts: conflicts}
	}

	writes := make([]repos.JobWrite, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		patch := map[string]interface{}{
			"assigned_to_id": req.TechnicianID,
		}
		if job.Status == models.JobStatusOpen {
			patch["status"] = models.JobStatusAssigned
		}
		writes = append(writes, repos.JobWrite{ID: job.ID, Patch: patch})
	}
	if err := s.jobs.WriteAtomic(ctx, writes); err != nil {
		return nil, fmt.Errorf("failed to assign jobs: %w", err)
	}

	staleManagers := map[uint]bool{}
	for i := range jobs {
		job := &jobs[i]
		property := properties[job.PropertyID]
		switch {
		case job.AssignedToID == nil:
			s.dispatcher.JobAssigned(s.event(job, property, req.TechnicianID, 0, ""))
		case *job.AssignedToID != req.TechnicianID:
			s.dispatcher.JobReassigned(s.event(job, property, req.TechnicianID, *job.AssignedToID, ""))
		}
		staleManagers[property.ManagerID] = true
	}
	for managerID := range staleManagers {
		s.dispatcher.DashboardStale(managerID)
	}

	return &types.BulkResult{JobIDs: excludeIDs, Count: len(jobs)}, nil
}

// BulkUpdate applies one patch to every targeted job as one atomic unit. A
// status change must be individually valid for every target's current
// status; an assignment change re-runs the conflict check.
func (s *JobService) BulkUpdate(ctx context.Context, actor access.Actor, req *types.BulkUpdateRequest) (*types.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	patch := &req.Patch

	jobs, properties, err := s.loadBatch(ctx, req.JobIDs)
	if err != nil {
		return nil, err
	}

	fields := patch.Fields()
	for i := range jobs {
		job := &jobs[i]
		decision := access.Authorize(actor, job, properties[job.PropertyID], access.OpUpdate)
		if err := decision.PermitFields(fields); err != nil {
			return nil, err
		}
		if patch.Status != nil && *patch.Status != job.Status {
			if err := lifecycle.Validate(job.ID, job.Status, *patch.Status); err != nil {
				return nil, err
			}
		}
		if err := checkAssigneeInvariant(job, patch); err != nil {
			return nil, err
		}
	}

	if patch.AssignedToID != nil {
		excludeIDs := jobIDs(jobs)
		candidates := make([]models.Job, len(jobs))
		copy(candidates, jobs)
		if patch.ScheduledDate != nil {
			for i := range candidates {
				candidates[i].ScheduledDate = patch.ScheduledDate
			}
		}
		conflicts, err := s.detector.FindConflicts(ctx, *patch.AssignedToID, candidates, excludeIDs)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &scheduling.ConflictError{TechnicianID: *patch.AssignedToID, Conflicts: conflicts}
		}
	}

	writes := make([]repos.JobWrite, 0, len(jobs))
	for i := range jobs {
		writes = append(writes, repos.JobWrite{ID: jobs[i].ID, Patch: s.updatePatch(&jobs[i], patch)})
	}
	if err := s.jobs.WriteAtomic(ctx, writes); err != nil {
		return nil, fmt.Errorf("failed to update jobs: %w", err)
	}

	staleManagers := map[uint]bool{}
	for i := range jobs {
		job := &jobs[i]
		property := properties[job.PropertyID]
		if patch.AssignedToID != nil {
			switch {
			case job.AssignedToID == nil:
				s.dispatcher.JobAssigned(s.event(job, property, *patch.AssignedToID, 0, ""))
			case *job.AssignedToID != *patch.AssignedToID:
				s.dispatcher.JobReassigned(s.event(job, property, *patch.AssignedToID, *job.AssignedToID, ""))
			}
		}
		if patch.Status != nil && *patch.Status != job.Status {
			from := job.Status
			applyStatus(job, *patch.Status)
			s.fireStatusEffects(job, property, from, *patch.Status, actor, "")
		}
		staleManagers[property.ManagerID] = true
	}
	for managerID := range staleManagers {
		s.dispatcher.DashboardStale(managerID)
	}

	return &types.BulkResult{JobIDs: jobIDs(jobs), Count: len(jobs)}, nil
}

// BulkDelete removes every targeted job as one atomic unit. Jobs that are
// IN_PROGRESS or COMPLETED are locked from deletion and fail the batch.
func (s *JobService) BulkDelete(ctx context.Context, actor access.Actor, req *types.BulkDeleteRequest) (*types.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	jobs, properties, err := s.loadBatch(ctx, req.JobIDs)
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		job := &jobs[i]
		if err := access.Authorize(actor, job, properties[job.PropertyID], access.OpDelete).Err(); err != nil {
			return nil, err
		}
		if job.Status == models.JobStatusInProgress || job.Status == models.JobStatusCompleted {
			return nil, types.NewValidationError("job_ids",
				fmt.Sprintf("job %d is %s and cannot be deleted", job.ID, job.Status))
		}
	}

	writes := make([]repos.JobWrite, 0, len(jobs))
	for i := range jobs {
		writes = append(writes, repos.JobWrite{ID: jobs[i].ID, Delete: true})
	}
	if err := s.jobs.WriteAtomic(ctx, writes); err != nil {
		return nil, fmt.Errorf("failed to delete jobs: %w", err)
	}

	staleManagers := map[uint]bool{}
	for i := range jobs {
		staleManagers[properties[jobs[i].PropertyID].ManagerID] = true
	}
	for managerID := range staleManagers {
		s.dispatcher.DashboardStale(managerID)
	}

	return &types.BulkResult{JobIDs: jobIDs(jobs), Count: len(jobs)}, nil
}

// loadJob reads one job and its property; a missing job is NotFound.
func (s *JobService) loadJob(ctx context.Context, id uint) (*models.Job, *models.Property, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, &types.NotFoundError{MissingIDs: []uint{id}}
	}
	property, err := s.properties.FindByID(ctx, job.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if property == nil {
		return nil, nil, fmt.Errorf("property %d missing for job %d", job.PropertyID, job.ID)
	}
	return job, property, nil
}

// loadBatch de-duplicates the requested ids, loads every target in one
// read, and fails with NotFound when any id does not resolve. Jobs come
// back in id order; validation runs in that order.
func (s *JobService) loadBatch(ctx context.Context, ids []uint) ([]models.Job, map[uint]*models.Property, error) {
	unique := dedupe(ids)
	jobs, err := s.jobs.FindByIDs(ctx, unique)
	if err != nil {
		return nil, nil, err
	}
	if len(jobs) != len(unique) {
		found := make(map[uint]bool, len(jobs))
		for i := range jobs {
			found[jobs[i].ID] = true
		}
		var missing []uint
		for _, id := range unique {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, nil, &types.NotFoundError{MissingIDs: missing}
	}

	propertyIDs := map[uint]bool{}
	for i := range jobs {
		propertyIDs[jobs[i].PropertyID] = true
	}
	lookup := make([]uint, 0, len(propertyIDs))
	for id := range propertyIDs {
		lookup = append(lookup, id)
	}
	properties, err := s.properties.FindByIDs(ctx, lookup)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]*models.Property, len(properties))
	for i := range properties {
		byID[properties[i].ID] = &properties[i]
	}
	for i := range jobs {
		if byID[jobs[i].PropertyID] == nil {
			return nil, nil, fmt.Errorf("property %d missing for job %d", jobs[i].PropertyID, jobs[i].ID)
		}
	}
	return jobs, byID, nil
}

// statusWrite builds the patch for one status transition. It carries the
// lifecycle timestamps: startedAt on the first move to IN_PROGRESS,
// completedDate exactly once on COMPLETED, and a cleared assignment on any
// move back to OPEN.
func (s *JobService) statusWrite(job *models.Job, target models.JobStatus) repos.JobWrite {
	patch := map[string]interface{}{"status": target}
	now := time.Now().UTC()
	switch target {
	case models.JobStatusInProgress:
		if job.StartedAt == nil {
			patch["started_at"] = now
		}
	case models.JobStatusCompleted:
		if job.CompletedDate == nil {
			patch["completed_date"] = now
		}
	case models.JobStatusOpen:
		patch["assigned_to_id"] = nil
	}
	return repos.JobWrite{ID: job.ID, Patch: patch}
}

// updatePatch translates a JobUpdate into the column patch for one job,
// folding in the same lifecycle timestamps as statusWrite.
func (s *JobService) updatePatch(job *models.Job, update *types.JobUpdate) map[string]interface{} {
	patch := map[string]interface{}{}
	if update.Title != nil {
		patch["title"] = *update.Title
	}
	if update.Description != nil {
		patch["description"] = *update.Description
	}
	if update.Priority != nil {
		patch["priority"] = *update.Priority
	}
	if update.AssignedToID != nil {
		patch["assigned_to_id"] = *update.AssignedToID
	}
	if update.ScheduledDate != nil {
		patch["scheduled_date"] = *update.ScheduledDate
	}
	if update.EstimatedCost != nil {
		patch["estimated_cost"] = *update.EstimatedCost
	}
	if update.ActualCost != nil {
		patch["actual_cost"] = *update.ActualCost
	}
	if update.Notes != nil {
		patch["notes"] = *update.Notes
	}
	if update.Evidence != nil {
		patch["evidence"] = update.Evidence
	}
	if update.Status != nil && *update.Status != job.Status {
		statusPatch := s.statusWrite(job, *update.Status).Patch
		for column, value := range statusPatch {
			// An explicit assignment in the same patch wins over the
			// clear-on-OPEN rule.
			if _, set := patch[column]; !set {
				patch[column] = value
			}
		}
	}
	return patch
}

// fireStatusEffects publishes the side effect matching a committed
// transition.
func (s *JobService) fireStatusEffects(job *models.Job, property *models.Property, from, to models.JobStatus, actor access.Actor, reason string) {
	technicianID := uint(0)
	if job.AssignedToID != nil {
		technicianID = *job.AssignedToID
	}
	switch {
	case to == models.JobStatusInProgress && from != models.JobStatusInProgress:
		s.dispatcher.JobStarted(s.event(job, property, technicianID, 0, ""))
	case to == models.JobStatusCompleted:
		s.dispatcher.JobCompleted(s.event(job, property, technicianID, 0, ""))
	case to == models.JobStatusOpen && from == models.JobStatusAssigned && actor.Role == models.UserRoleTechnician:
		s.dispatcher.JobRejected(s.event(job, property, actor.ID, 0, reason))
	}
}

func (s *JobService) event(job *models.Job, property *models.Property, technicianID, prevTechnicianID uint, reason string) events.Event {
	return events.Event{
		JobID:            job.ID,
		JobTitle:         job.Title,
		PropertyID:       property.ID,
		ManagerID:        property.ManagerID,
		TechnicianID:     technicianID,
		PrevTechnicianID: prevTechnicianID,
		ScheduledDate:    job.ScheduledDate,
		Reason:           reason,
	}
}

// applyStatus mirrors a committed status write onto the in-memory job so
// the caller sees the state the store now holds.
func applyStatus(job *models.Job, target models.JobStatus) {
	now := time.Now().UTC()
	switch target {
	case models.JobStatusInProgress:
		if job.StartedAt == nil {
			job.StartedAt = &now
		}
	case models.JobStatusCompleted:
		if job.CompletedDate == nil {
			job.CompletedDate = &now
		}
	case models.JobStatusOpen:
		job.AssignedToID = nil
	}
	job.Status = target
}

// checkAssigneeInvariant refuses a status patch into ASSIGNED or
// IN_PROGRESS that would leave the job without a technician.
func checkAssigneeInvariant(job *models.Job, patch *types.JobUpdate) error {
	if patch.Status == nil {
		return nil
	}
	target := *patch.Status
	if target != models.JobStatusAssigned && target != models.JobStatusInProgress {
		return nil
	}
	if job.AssignedToID == nil && patch.AssignedToID == nil {
		return types.NewValidationError("status",
			fmt.Sprintf("job %d cannot be %s without an assigned technician", job.ID, target))
	}
	return nil
}

// dedupe removes duplicate ids, preserving first-seen order
func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func jobIDs(jobs []models.Job) []uint {
	ids := make([]uint, len(jobs))
	for i := range jobs {
		ids[i] = jobs[i].ID
	}
	return ids
}
