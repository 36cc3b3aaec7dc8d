package events

import (
	"sync"

	"spfs/domain/events"
	"spfs/logging"
)

// ChangeEventBus fans library change events out to subscribers
type ChangeEventBus struct {
	mu     sync.RWMutex
	wg     sync.WaitGroup
	logger *logging.Logger

	changeHandlers []func(events.ChangeEvent)
}

// NewChangeEventBus creates a new change event bus
func NewChangeEventBus() *ChangeEventBus {
	return &ChangeEventBus{
		logger:         logging.Default().WithComponent("change_event_bus"),
		changeHandlers: make([]func(events.ChangeEvent), 0),
	}
}

// OnChange subscribes handler to every published change
func (bus *ChangeEventBus) OnChange(handler func(events.ChangeEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.changeHandlers = append(bus.changeHandlers, handler)
}

// PublishChange delivers event to all subscribers without blocking the publisher
func (bus *ChangeEventBus) PublishChange(event events.ChangeEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.ChangeEvent), len(bus.changeHandlers))
	copy(handlers, bus.changeHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		bus.wg.Add(1)
		go func(h func(events.ChangeEvent)) {
			defer bus.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in Change",
						"op", event.Operation.Kind,
						"path", event.Operation.Path,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned
func (bus *ChangeEventBus) Wait() {
	bus.wg.Wait()
}

var _ events.ChangePublisher = (*ChangeEventBus)(nil)
