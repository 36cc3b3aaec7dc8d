package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spfs/domain/events"
	"spfs/domain/journal"
)

func testEvent(path string) events.ChangeEvent {
	return events.ChangeEvent{
		Operation: journal.NewOperation(journal.KindWrite, path, "", time.Now(), nil),
		Timestamp: time.Now(),
	}
}

func TestChangeEventBus_PublishChange_Success(t *testing.T) {
	// Arrange
	bus := NewChangeEventBus()
	done := make(chan events.ChangeEvent, 1)
	bus.OnChange(func(event events.ChangeEvent) {
		done <- event
	})

	// Act
	bus.PublishChange(testEvent("/a.txt"))

	// Assert
	select {
	case received := <-done:
		assert.Equal(t, "/a.txt", received.Operation.Path)
		assert.Equal(t, journal.KindWrite, received.Operation.Kind)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Handler was not called within timeout")
	}
}

func TestChangeEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewChangeEventBus()

	var mu sync.Mutex
	calls := 0
	for i := 0; i < 3; i++ {
		bus.OnChange(func(events.ChangeEvent) {
			mu.Lock()
			calls++
			mu.Unlock()
		})
	}

	bus.PublishChange(testEvent("/a.txt"))
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}

func TestChangeEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewChangeEventBus()
	done := make(chan struct{}, 1)

	bus.OnChange(func(events.ChangeEvent) { panic("boom") })
	bus.OnChange(func(events.ChangeEvent) { done <- struct{}{} })

	require.NotPanics(t, func() {
		bus.PublishChange(testEvent("/a.txt"))
		bus.Wait()
	})

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Healthy handler was not called")
	}
}

func TestChangeEventBus_NoSubscribers(t *testing.T) {
	bus := NewChangeEventBus()

	assert.NotPanics(t, func() {
		bus.PublishChange(testEvent("/a.txt"))
		bus.Wait()
	})
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.ChangeEvent
}

func (n *recordingNotifier) BroadcastChange(event events.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func TestNotificationEventHandlers_ForwardChanges(t *testing.T) {
	bus := NewChangeEventBus()
	notifier := &recordingNotifier{}
	NewNotificationEventHandlers(notifier).RegisterHandlers(bus)

	bus.PublishChange(testEvent("/docs/a.txt"))
	bus.Wait()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.events, 1)
	assert.Equal(t, "/docs/a.txt", notifier.events[0].Operation.Path)
}
