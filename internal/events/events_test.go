package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus(t *testing.T) {
	t.Run("Subscribe and Publish", func(t *testing.T) {
		bus := NewBus()

		var wg sync.WaitGroup
		wg.Add(1)

		var mu sync.Mutex
		var receivedEvent Event
		bus.Subscribe(TypeJobAssigned, func(_ context.Context, event Event) error {
			mu.Lock()
			receivedEvent = event
			mu.Unlock()
			wg.Done()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus.Start(ctx)

		testEvent := Event{
			Type:         TypeJobAssigned,
			JobID:        12,
			JobTitle:     "Unblock drain",
			TechnicianID: 9,
		}
		bus.Publish(testEvent)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for handler")
		}

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, testEvent, receivedEvent)
	})

	t.Run("Handler error does not reach publisher", func(t *testing.T) {
		bus := NewBus()

		var wg sync.WaitGroup
		wg.Add(2)

		bus.Subscribe(TypeJobCompleted, func(context.Context, Event) error {
			wg.Done()
			return errors.New("notification channel down")
		})

		var mu sync.Mutex
		secondRan := false
		bus.Subscribe(TypeJobCompleted, func(context.Context, Event) error {
			mu.Lock()
			secondRan = true
			mu.Unlock()
			wg.Done()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus.Start(ctx)

		// Publish never returns an error, even when a handler fails
		bus.Publish(Event{Type: TypeJobCompleted, JobID: 3})

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for handlers")
		}

		mu.Lock()
		defer mu.Unlock()
		assert.True(t, secondRan, "sibling handler should run despite the failure")
	})

	t.Run("Publish never blocks on a full buffer", func(t *testing.T) {
		bus := NewBus()
		// No Start call, so nothing drains the channel

		finished := make(chan struct{})
		go func() {
			for i := 0; i < channelSize+10; i++ {
				bus.Publish(Event{Type: TypeJobStarted, JobID: uint(i)})
			}
			close(finished)
		}()

		select {
		case <-finished:
		case <-time.After(2 * time.Second):
			t.Fatal("Publish blocked on full buffer")
		}
	})

	t.Run("Dispatcher methods tag the event type", func(t *testing.T) {
		bus := NewBus()

		var mu sync.Mutex
		seen := make(map[Type]Event)
		var wg sync.WaitGroup
		record := func(_ context.Context, e Event) error {
			mu.Lock()
			seen[e.Type] = e
			mu.Unlock()
			wg.Done()
			return nil
		}
		for _, eventType := range []Type{
			TypeJobAssigned, TypeJobReassigned, TypeJobStarted,
			TypeJobCompleted, TypeJobRejected, TypeDashboardStale,
		} {
			bus.Subscribe(eventType, record)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus.Start(ctx)

		wg.Add(6)
		bus.JobAssigned(Event{JobID: 1})
		bus.JobReassigned(Event{JobID: 1, PrevTechnicianID: 4})
		bus.JobStarted(Event{JobID: 1})
		bus.JobCompleted(Event{JobID: 1})
		bus.JobRejected(Event{JobID: 1, Reason: "double booked"})
		bus.DashboardStale(7)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for handlers")
		}

		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, seen, 6)
		assert.Equal(t, uint(4), seen[TypeJobReassigned].PrevTechnicianID)
		assert.Equal(t, "double booked", seen[TypeJobRejected].Reason)
		assert.Equal(t, uint(7), seen[TypeDashboardStale].ManagerID)
	})
}
