package access

import (
	"strings"
	"testing"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

func uintPtr(v uint) *uint { return &v }

func testFixtures() (*models.Job, *models.Property) {
	job := &models.Job{
		Title:        "Fix boiler",
		Status:       models.JobStatusAssigned,
		PropertyID:   10,
		AssignedToID: uintPtr(42),
		CreatedByID:  7,
	}
	job.ID = 1
	property := &models.Property{
		Name:      "Riverside House",
		ManagerID: 7,
		OwnerIDs:  []uint{100, 101},
	}
	property.ID = 10
	return job, property
}

func TestAuthorize(t *testing.T) {
	job, property := testFixtures()

	tests := []struct {
		name      string
		actor     Actor
		op        Operation
		want      bool
		reasonHas string
	}{
		{
			name:  "manager may read own property's job",
			actor: Actor{ID: 7, Role: models.UserRoleManager},
			op:    OpRead,
			want:  true,
		},
		{
			name:  "manager may delete own property's job",
			actor: Actor{ID: 7, Role: models.UserRoleManager},
			op:    OpDelete,
			want:  true,
		},
		{
			name:      "foreign manager is denied",
			actor:     Actor{ID: 8, Role: models.UserRoleManager},
			op:        OpUpdate,
			want:      false,
			reasonHas: "managed by someone else",
		},
		{
			name:  "assigned technician may update",
			actor: Actor{ID: 42, Role: models.UserRoleTechnician},
			op:    OpUpdate,
			want:  true,
		},
		{
			name:      "unassigned technician is denied",
			actor:     Actor{ID: 43, Role: models.UserRoleTechnician},
			op:        OpRead,
			want:      false,
			reasonHas: "not assigned",
		},
		{
			name:      "technician may not delete",
			actor:     Actor{ID: 42, Role: models.UserRoleTechnician},
			op:        OpDelete,
			want:      false,
		},
		{
			name:      "technician may not assign",
			actor:     Actor{ID: 42, Role: models.UserRoleTechnician},
			op:        OpAssign,
			want:      false,
		},
		{
			name:  "owner may read",
			actor: Actor{ID: 100, Role: models.UserRoleOwner},
			op:    OpRead,
			want:  true,
		},
		{
			name:      "owner may not update",
			actor:     Actor{ID: 100, Role: models.UserRoleOwner},
			op:        OpUpdate,
			want:      false,
		},
		{
			name:      "non-owner is denied reads",
			actor:     Actor{ID: 102, Role: models.UserRoleOwner},
			op:        OpRead,
			want:      false,
			reasonHas: "owned by someone else",
		},
		{
			name:      "tenant has no access",
			actor:     Actor{ID: 200, Role: models.UserRoleTenant},
			op:        OpRead,
			want:      false,
			reasonHas: "no access",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.actor, job, property, tt.op)
			if decision.Allowed != tt.want {
				t.Fatalf("Authorize() allowed = %v, want %v (reason: %s)", decision.Allowed, tt.want, decision.Reason)
			}
			if tt.reasonHas != "" && !strings.Contains(decision.Reason, tt.reasonHas) {
				t.Errorf("Authorize() reason = %q, want to contain %q", decision.Reason, tt.reasonHas)
			}
		})
	}
}

func TestDecision_PermitFields(t *testing.T) {
	job, property := testFixtures()

	manager := Authorize(Actor{ID: 7, Role: models.UserRoleManager}, job, property, OpUpdate)
	if err := manager.PermitFields([]string{"title", "priority", "scheduled_date"}); err != nil {
		t.Errorf("manager PermitFields() = %v, want nil", err)
	}

	tech := Authorize(Actor{ID: 42, Role: models.UserRoleTechnician}, job, property, OpUpdate)
	if err := tech.PermitFields([]string{"status", "notes", "actual_cost", "evidence"}); err != nil {
		t.Errorf("technician PermitFields(whitelisted) = %v, want nil", err)
	}

	// One illegal field denies the whole mutation even when the rest is legal.
	err := tech.PermitFields([]string{"status", "priority"})
	if err == nil {
		t.Fatal("technician PermitFields(priority) = nil, want denial")
	}
	if !strings.Contains(err.Error(), "priority") {
		t.Errorf("denial = %q, want it to name the offending field", err)
	}

	denied := Authorize(Actor{ID: 43, Role: models.UserRoleTechnician}, job, property, OpUpdate)
	if err := denied.PermitFields([]string{"notes"}); err == nil {
		t.Error("PermitFields on denied decision = nil, want error")
	}
}
