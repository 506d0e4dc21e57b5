package types

import (
	"encoding/json"
	"time"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

// CreateJobRequest represents the request to create a maintenance job
type CreateJobRequest struct {
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Priority      models.JobPriority `json:"priority,omitempty"`
	PropertyID    uint               `json:"property_id"`
	UnitID        *uint              `json:"unit_id,omitempty"`
	AssignedToID  *uint              `json:"assigned_to_id,omitempty"`
	ScheduledDate *time.Time         `json:"scheduled_date,omitempty"`
	EstimatedCost *float64           `json:"estimated_cost,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

// Validate checks the request for missing or malformed fields
func (r *CreateJobRequest) Validate() error {
	fields := FieldErrors{}
	if r.Title == "" {
		fields["title"] = "title is required"
	}
	if r.PropertyID == 0 {
		fields["property_id"] = "property_id is required"
	}
	if r.Priority != "" {
		if _, err := models.ParseJobPriority(string(r.Priority)); err != nil {
			fields["priority"] = err.Error()
		}
	}
	if r.EstimatedCost != nil && *r.EstimatedCost < 0 {
		fields["estimated_cost"] = "estimated_cost must not be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// UpdateStatusRequest represents a single-job status change
type UpdateStatusRequest struct {
	Status models.JobStatus `json:"status"`
}

// Validate checks the request for missing or malformed fields
func (r *UpdateStatusRequest) Validate() error {
	if r.Status == "" {
		return NewValidationError("status", "status is required")
	}
	if !r.Status.Valid() {
		return NewValidationError("status", "invalid job status: "+string(r.Status))
	}
	return nil
}

// RejectJobRequest represents a technician declining an assignment
type RejectJobRequest struct {
	Reason string `json:"reason,omitempty"`
}

// JobUpdate is the patch applied by update operations. Nil fields are left
// untouched; Fields reports which fields the patch sets so access decisions
// can be checked mechanically against it.
type JobUpdate struct {
	Title         *string             `json:"title,omitempty"`
	Description   *string             `json:"description,omitempty"`
	Status        *models.JobStatus   `json:"status,omitempty"`
	Priority      *models.JobPriority `json:"priority,omitempty"`
	AssignedToID  *uint               `json:"assigned_to_id,omitempty"`
	ScheduledDate *time.Time          `json:"scheduled_date,omitempty"`
	EstimatedCost *float64            `json:"estimated_cost,omitempty"`
	ActualCost    *float64            `json:"actual_cost,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Evidence      json.RawMessage     `json:"evidence,omitempty"`
}

// Fields returns the JSON names of every field the patch sets
func (u *JobUpdate) Fields() []string {
	var fields []string
	if u.Title != nil {
		fields = append(fields, "title")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Status != nil {
		fields = append(fields, "status")
	}
	if u.Priority != nil {
		fields = append(fields, "priority")
	}
	if u.AssignedToID != nil {
		fields = append(fields, "assigned_to_id")
	}
	if u.ScheduledDate != nil {
		fields = append(fields, "scheduled_date")
	}
	if u.EstimatedCost != nil {
		fields = append(fields, "estimated_cost")
	}
	if u.ActualCost != nil {
		fields = append(fields, "actual_cost")
	}
	if u.Notes != nil {
		fields = append(fields, "notes")
	}
	if u.Evidence != nil {
		fields = append(fields, "evidence")
	}
	return fields
}

// Empty reports whether the patch sets nothing
func (u *JobUpdate) Empty() bool {
	return len(u.Fields()) == 0
}

// Validate checks the patch for malformed values
func (u *JobUpdate) Validate() error {
	fields := FieldErrors{}
	if u.Empty() {
		return NewValidationError("patch", "no fields to update")
	}
	if u.Title != nil && *u.Title == "" {
		fields["title"] = "title must not be empty"
	}
	if u.Status != nil && !u.Status.Valid() {
		fields["status"] = "invalid job status: " + string(*u.Status)
	}
	if u.Priority != nil {
		if _, err := models.ParseJobPriority(string(*u.Priority)); err != nil {
			fields["priority"] = err.Error()
		}
	}
	if u.EstimatedCost != nil && *u.EstimatedCost < 0 {
		fields["estimated_cost"] = "estimated_cost must not be negative"
	}
	if u.ActualCost != nil && *u.ActualCost < 0 {
		fields["actual_cost"] = "actual_cost must not be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// BulkAssignRequest represents assigning a technician to many jobs at once
type BulkAssignRequest struct {
	JobIDs       []uint `json:"job_ids"`
	TechnicianID uint   `json:"technician_id"`
}

// Validate checks the request for missing or malformed fields
func (r *BulkAssignRequest) Validate() error {
	fields := FieldErrors{}
	if len(r.JobIDs) == 0 {
		fields["job_ids"] = "at least one job id is required"
	}
	if r.TechnicianID == 0 {
		fields["technician_id"] = "technician_id is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// BulkUpdateRequest represents one patch applied to many jobs at once
type BulkUpdateRequest struct {
	JobIDs []uint    `json:"job_ids"`
	Patch  JobUpdate `json:"patch"`
}

// Validate checks the request for missing or malformed fields
func (r *BulkUpdateRequest) Validate() error {
	if len(r.JobIDs) == 0 {
		return NewValidationError("job_ids", "at least one job id is required")
	}
	return r.Patch.Validate()
}

// BulkDeleteRequest represents deleting many jobs at once
type BulkDeleteRequest struct {
	JobIDs []uint `json:"job_ids"`
}

// Validate checks the request for missing or malformed fields
func (r *BulkDeleteRequest) Validate() error {
	if len(r.JobIDs) == 0 {
		return NewValidationError("job_ids", "at least one job id is required")
	}
	return nil
}

// BulkResult confirms which jobs a bulk operation touched
type BulkResult struct {
	JobIDs []uint `json:"job_ids"`
	Count  int    `json:"count"`
}
