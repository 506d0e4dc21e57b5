package types

import (
	"strings"
	"testing"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

func TestCreateJobRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateJobRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid request",
			request: CreateJobRequest{Title: "Fix boiler", PropertyID: 1},
			wantErr: false,
		},
		{
			name:    "missing title",
			request: CreateJobRequest{PropertyID: 1},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "missing property",
			request: CreateJobRequest{Title: "Fix boiler"},
			wantErr: true,
			errMsg:  "property_id is required",
		},
		{
			name:    "bad priority",
			request: CreateJobRequest{Title: "Fix boiler", PropertyID: 1, Priority: "SOMEDAY"},
			wantErr: true,
			errMsg:  "invalid job priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want to contain %v", err, tt.errMsg)
			}
		})
	}
}

func TestJobUpdate_Fields(t *testing.T) {
	status := models.JobStatusCompleted
	notes := "replaced valve"
	cost := 120.50

	update := JobUpdate{Status: &status, Notes: &notes, ActualCost: &cost}
	fields := update.Fields()

	want := []string{"status", "actual_cost", "notes"}
	for _, field := range want {
		found := false
		for _, got := range fields {
			if got == field {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Fields() = %v, missing %q", fields, field)
		}
	}
	if len(fields) != len(want) {
		t.Errorf("Fields() = %v, want exactly %v", fields, want)
	}
}

func TestJobUpdate_Validate(t *testing.T) {
	badStatus := models.JobStatus("DONE")
	title := ""
	negative := -5.0
	notes := "ok"

	tests := []struct {
		name    string
		update  JobUpdate
		wantErr string
	}{
		{
			name:    "empty patch",
			update:  JobUpdate{},
			wantErr: "no fields to update",
		},
		{
			name:    "bad status value",
			update:  JobUpdate{Status: &badStatus},
			wantErr: "invalid job status",
		},
		{
			name:    "empty title",
			update:  JobUpdate{Title: &title},
			wantErr: "title must not be empty",
		},
		{
			name:    "negative cost",
			update:  JobUpdate{ActualCost: &negative},
			wantErr: "actual_cost must not be negative",
		},
		{
			name:   "valid patch",
			update: JobUpdate{Notes: &notes},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestBulkRequests_Validate(t *testing.T) {
	assign := BulkAssignRequest{}
	if err := assign.Validate(); err == nil || !strings.Contains(err.Error(), "job id") {
		t.Errorf("BulkAssignRequest.Validate() = %v, want job id error", err)
	}

	assign = BulkAssignRequest{JobIDs: []uint{1}, TechnicianID: 0}
	if err := assign.Validate(); err == nil || !strings.Contains(err.Error(), "technician_id") {
		t.Errorf("BulkAssignRequest.Validate() = %v, want technician_id error", err)
	}

	del := BulkDeleteRequest{JobIDs: []uint{1, 2}}
	if err := del.Validate(); err != nil {
		t.Errorf("BulkDeleteRequest.Validate() = %v, want nil", err)
	}

	upd := BulkUpdateRequest{JobIDs: []uint{1}}
	if err := upd.Validate(); err == nil || !strings.Contains(err.Error(), "no fields to update") {
		t.Errorf("BulkUpdateRequest.Validate() = %v, want empty patch error", err)
	}
}
