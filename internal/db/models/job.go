package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Database field names shared between the repositories and the scheduling
// queries.
const (
	// JobScheduledDateField is the database field name for the job scheduled date
	JobScheduledDateField = "scheduled_date"
	// JobAssignedToField is the database field name for the job assignee
	JobAssignedToField = "assigned_to_id"
	// JobStatusField is the database field name for the job status
	JobStatusField = "status"
)

// JobStatus represents the current state of a maintenance job
type JobStatus string

// Job status constants
const (
	// JobStatusOpen indicates the job is waiting to be assigned
	JobStatusOpen JobStatus = "OPEN"
	// JobStatusAssigned indicates the job has a technician but work has not started
	JobStatusAssigned JobStatus = "ASSIGNED"
	// JobStatusInProgress indicates the assigned technician has started work
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	// JobStatusCompleted indicates the job has finished successfully
	JobStatusCompleted JobStatus = "COMPLETED"
	// JobStatusCancelled indicates the job was cancelled before completion
	JobStatusCancelled JobStatus = "CANCELLED"
)

// jobStatuses lists every valid status value
var jobStatuses = []JobStatus{
	JobStatusOpen,
	JobStatusAssigned,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCancelled,
}

// ParseJobStatus converts a string representation of a job status to JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	for _, status := range jobStatuses {
		if string(status) == str {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid job status: %s", str)
}

func (s JobStatus) String() string {
	return string(s)
}

// Valid reports whether the status is one of the enumerated values
func (s JobStatus) Valid() bool {
	for _, status := range jobStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status permits no further transitions
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// UnmarshalJSON implements the json.Unmarshaler interface for JobStatus
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// JobPriority represents the urgency of a maintenance job
type JobPriority string

// Job priority constants
const (
	// JobPriorityLow is routine, non-urgent work
	JobPriorityLow JobPriority = "LOW"
	// JobPriorityMedium is the default priority
	JobPriorityMedium JobPriority = "MEDIUM"
	// JobPriorityHigh is work that should be scheduled ahead of the queue
	JobPriorityHigh JobPriority = "HIGH"
	// JobPriorityUrgent is work requiring immediate attention
	JobPriorityUrgent JobPriority = "URGENT"
)

var jobPriorities = []JobPriority{
	JobPriorityLow,
	JobPriorityMedium,
	JobPriorityHigh,
	JobPriorityUrgent,
}

// ParseJobPriority converts a string representation of a job priority to JobPriority type
func ParseJobPriority(str string) (JobPriority, error) {
	for _, priority := range jobPriorities {
		if string(priority) == str {
			return priority, nil
		}
	}
	return "", fmt.Errorf("invalid job priority: %s", str)
}

// UnmarshalJSON implements the json.Unmarshaler interface for JobPriority
func (p *JobPriority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	priority, err := ParseJobPriority(str)
	if err != nil {
		return err
	}

	*p = priority
	return nil
}

// Job represents a maintenance task tied to a property
type Job struct {
	gorm.Model
	Title         string          `json:"title" gorm:"not null;index"`
	Description   string          `json:"description" gorm:"type:text"`
	Status        JobStatus       `json:"status" gorm:"type:varchar(16);not null;index"`
	Priority      JobPriority     `json:"priority" gorm:"type:varchar(16);not null;default:'MEDIUM'"`
	PropertyID    uint            `json:"property_id" gorm:"not null;index"`
	UnitID        *uint           `json:"unit_id,omitempty" gorm:"index"`
	AssignedToID  *uint           `json:"assigned_to_id,omitempty" gorm:"index"`
	CreatedByID   uint            `json:"created_by_id" gorm:"not null;index"`
	ScheduledDate *time.Time      `json:"scheduled_date,omitempty" gorm:"index"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedDate *time.Time      `json:"completed_date,omitempty"`
	EstimatedCost *float64        `json:"estimated_cost,omitempty"`
	ActualCost    *float64        `json:"actual_cost,omitempty"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
	Evidence      json.RawMessage `json:"evidence,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
}

// AssignedTo reports whether the job is currently assigned to the given user
func (j *Job) AssignedTo(userID uint) bool {
	return j.AssignedToID != nil && *j.AssignedToID == userID
}
