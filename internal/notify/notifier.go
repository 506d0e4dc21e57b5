// Package notify turns job lifecycle events into user notifications. The
// delivery mechanics live outside this service; the log notifier here
// records what would be sent and is the default sink.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/events"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/logger"
)

// LogNotifier writes notification records to the structured log
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Register subscribes the notifier to every job lifecycle event type
func (n *LogNotifier) Register(bus *events.Bus) {
	for _, t := range []events.Type{
		events.TypeJobAssigned,
		events.TypeJobReassigned,
		events.TypeJobStarted,
		events.TypeJobCompleted,
		events.TypeJobRejected,
	} {
		bus.Subscribe(t, n.deliver)
	}
}

func (n *LogNotifier) deliver(_ context.Context, e events.Event) error {
	fields := map[string]interface{}{
		"delivery_id": uuid.NewString(),
		"event":       string(e.Type),
		"job_id":      e.JobID,
		"job_title":   e.JobTitle,
		"property_id": e.PropertyID,
		"manager_id":  e.ManagerID,
	}
	if e.TechnicianID != 0 {
		fields["technician_id"] = e.TechnicianID
	}
	if e.PrevTechnicianID != 0 {
		fields["prev_technician_id"] = e.PrevTechnicianID
	}
	if e.Reason != "" {
		fields["reason"] = e.Reason
	}
	logger.InfoWithFields(n.subject(e), fields)
	return nil
}

func (n *LogNotifier) subject(e events.Event) string {
	switch e.Type {
	case events.TypeJobAssigned:
		return fmt.Sprintf("Job %q assigned to technician %d", e.JobTitle, e.TechnicianID)
	case events.TypeJobReassigned:
		return fmt.Sprintf("Job %q reassigned from technician %d to %d", e.JobTitle, e.PrevTechnicianID, e.TechnicianID)
	case events.TypeJobStarted:
		return fmt.Sprintf("Work started on job %q", e.JobTitle)
	case events.TypeJobCompleted:
		return fmt.Sprintf("Job %q completed", e.JobTitle)
	case events.TypeJobRejected:
		return fmt.Sprintf("Job %q rejected by technician %d", e.JobTitle, e.TechnicianID)
	}
	return string(e.Type)
}
