// Package events carries the best-effort side effects fired after a job
// mutation commits: notifications and cache invalidation. Delivery is
// fire-and-forget; a failing handler is logged and never surfaces to the
// operation that published the event.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/logger"
)

// Type represents the type of job lifecycle event
type Type string

const (
	// TypeJobAssigned is emitted when a job gains its first technician
	TypeJobAssigned Type = "job_assigned"
	// TypeJobReassigned is emitted when a job moves between technicians
	TypeJobReassigned Type = "job_reassigned"
	// TypeJobStarted is emitted when the technician starts work
	TypeJobStarted Type = "job_started"
	// TypeJobCompleted is emitted when a job reaches COMPLETED
	TypeJobCompleted Type = "job_completed"
	// TypeJobRejected is emitted when a technician declines an assignment
	TypeJobRejected Type = "job_rejected"
	// TypeDashboardStale is emitted when a manager's dashboard cache must be dropped
	TypeDashboardStale Type = "dashboard_stale"

	// channelSize is the buffer size for the event channel
	channelSize = 100
)

// Event represents a job lifecycle event
type Event struct {
	Type             Type       // The type of event
	JobID            uint       // The job the event is about
	JobTitle         string     // The job title, for notification content
	PropertyID       uint       // The job's property
	ManagerID        uint       // The property's manager
	TechnicianID     uint       // The technician involved, if any
	PrevTechnicianID uint       // The previous technician on a reassignment
	ScheduledDate    *time.Time // The job's scheduled date, if any
	Reason           string     // Free-form reason on rejections
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

// Bus is an in-process pub/sub channel for lifecycle events
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	ch       chan Event
}

// NewBus creates a new event bus; call Start before publishing
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
		ch:       make(chan Event, channelSize),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	logger.Debugf("📝 Registered handler for event type: %s", eventType)
}

// Publish sends an event to be processed. Publishing never blocks the
// caller: when the buffer is full the event is dropped with a warning.
func (b *Bus) Publish(event Event) {
	select {
	case b.ch <- event:
		logger.Debugf("📢 Published event: %s (job %d)", event.Type, event.JobID)
	default:
		logger.Warnf("event buffer full, dropped %s for job %d", event.Type, event.JobID)
	}
}

// Start starts the event processing loop
func (b *Bus) Start(ctx context.Context) {
	go b.processEvents(ctx)
	logger.Info("🎯 Started event processing loop")
}

func (b *Bus) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("🛑 Stopping event processing loop")
			return
		case event := <-b.ch:
			b.mu.RLock()
			eventHandlers := b.handlers[event.Type]
			b.mu.RUnlock()

			for _, handler := range eventHandlers {
				go func(h Handler, e Event) {
					if err := h(ctx, e); err != nil {
						logger.Errorf("❌ Failed to handle event %s for job %d: %v", e.Type, e.JobID, err)
					}
				}(handler, event)
			}
		}
	}
}

// The methods below are the dispatcher surface the job service fires after a
// successful commit.

// JobAssigned reports a job gaining its first technician
func (b *Bus) JobAssigned(e Event) {
	e.Type = TypeJobAssigned
	b.Publish(e)
}

// JobReassigned reports a job moving from one technician to another
func (b *Bus) JobReassigned(e Event) {
	e.Type = TypeJobReassigned
	b.Publish(e)
}

// JobStarted reports work beginning on a job
func (b *Bus) JobStarted(e Event) {
	e.Type = TypeJobStarted
	b.Publish(e)
}

// JobCompleted reports a job reaching COMPLETED
func (b *Bus) JobCompleted(e Event) {
	e.Type = TypeJobCompleted
	b.Publish(e)
}

// JobRejected reports a technician declining an assignment
func (b *Bus) JobRejected(e Event) {
	e.Type = TypeJobRejected
	b.Publish(e)
}

// DashboardStale reports that the manager's dashboard cache must be dropped
func (b *Bus) DashboardStale(managerID uint) {
	b.Publish(Event{Type: TypeDashboardStale, ManagerID: managerID})
}
