// Package access decides whether an actor may read or mutate a job, and
// which fields their role may touch. Decisions are pure values; callers
// enforce them.
package access

import (
	"fmt"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

// Actor identifies the caller of an operation
type Actor struct {
	ID   uint            `json:"id"`
	Role models.UserRole `json:"role"`
}

// Operation represents the kind of access being requested
type Operation string

// Operation constants
const (
	// OpRead is any read of a job
	OpRead Operation = "read"
	// OpUpdate is a field-level mutation of a job
	OpUpdate Operation = "update"
	// OpAssign is assigning or reassigning a technician
	OpAssign Operation = "assign"
	// OpDelete is removing a job
	OpDelete Operation = "delete"
	// OpCreate is creating a job on a property
	OpCreate Operation = "create"
)

// capability describes what a role may do with a job it has a relation to.
// A nil Fields slice means every field is mutable.
type capability struct {
	read   bool
	update bool
	assign bool
	delete bool
	fields []string
}

// TechnicianFields is the field subset an assigned technician may mutate.
// Field names match the JSON names on the job patch.
var TechnicianFields = []string{"status", "notes", "actual_cost", "evidence"}

// capabilities is the per-role capability descriptor. Roles absent from the
// map have no job access at all (tenants reach jobs only through service
// requests, which are a separate surface).
var capabilities = map[models.UserRole]capability{
	models.UserRoleManager: {
		read:   true,
		update: true,
		assign: true,
		delete: true,
	},
	models.UserRoleTechnician: {
		read:   true,
		update: true,
		fields: TechnicianFields,
	},
	models.UserRoleOwner: {
		read: true,
	},
}

// Decision is the structured result of an authorization check. Fields is the
// set of mutable field names for the actor; nil means unrestricted.
type Decision struct {
	Allowed bool
	Reason  string
	Fields  []string
}

// DeniedError is returned when an operation violates an access decision
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

func deny(format string, args ...interface{}) Decision {
	return Decision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// Authorize resolves whether the actor may perform op on the given job. The
// property is the job's property, read by the caller; it supplies the
// manager and owner relations.
func Authorize(actor Actor, job *models.Job, property *models.Property, op Operation) Decision {
	cap, ok := capabilities[actor.Role]
	if !ok {
		return deny("role %s has no access to jobs", actor.Role)
	}

	// The relation gate: managers through property management, technicians
	// through assignment, owners through property ownership.
	switch actor.Role {
	case models.UserRoleManager:
		if property.ManagerID != actor.ID {
			return deny("job %d belongs to a property managed by someone else", job.ID)
		}
	case models.UserRoleTechnician:
		if !job.AssignedTo(actor.ID) {
			return deny("job %d is not assigned to technician %d", job.ID, actor.ID)
		}
	case models.UserRoleOwner:
		if !property.OwnedBy(actor.ID) {
			return deny("job %d belongs to a property owned by someone else", job.ID)
		}
	}

	allowed := false
	switch op {
	case OpRead:
		allowed = cap.read
	case OpUpdate:
		allowed = cap.update
	case OpAssign:
		allowed = cap.assign
	case OpDelete:
		allowed = cap.delete
	case OpCreate:
		allowed = cap.assign // creating jobs is a manager capability
	}
	if !allowed {
		return deny("role %s may not %s job %d", actor.Role, op, job.ID)
	}

	return Decision{Allowed: true, Fields: cap.fields}
}

// PermitFields checks a mutation's field set against the decision's
// whitelist. Any field outside the whitelist denies the whole mutation; no
// silent dropping.
func (d Decision) PermitFields(fields []string) error {
	if !d.Allowed {
		return &DeniedError{Reason: d.Reason}
	}
	if d.Fields == nil {
		return nil
	}
	for _, field := range fields {
		permitted := false
		for _, allowed := range d.Fields {
			if field == allowed {
				permitted = true
				break
			}
		}
		if !permitted {
			return &DeniedError{
				Reason: fmt.Sprintf("field %s is not mutable by this role", field),
			}
		}
	}
	return nil
}

// Err converts a denial into a DeniedError; nil for allowed decisions.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}
