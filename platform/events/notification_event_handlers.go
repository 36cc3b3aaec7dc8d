package events

import (
	"spfs/domain/events"
	"spfs/logging"
)

// ChangeNotifier pushes change notifications to connected clients.
type ChangeNotifier interface {
	BroadcastChange(event events.ChangeEvent)
}

// NotificationEventHandlers forwards bus events to a notifier
type NotificationEventHandlers struct {
	notifier ChangeNotifier
	logger   *logging.Logger
}

// NewNotificationEventHandlers creates the notification handlers
func NewNotificationEventHandlers(notifier ChangeNotifier) *NotificationEventHandlers {
	return &NotificationEventHandlers{
		notifier: notifier,
		logger:   logging.Default().WithComponent("notification_handlers"),
	}
}

// RegisterHandlers subscribes the handlers to bus
func (h *NotificationEventHandlers) RegisterHandlers(bus *ChangeEventBus) {
	bus.OnChange(h.handleChange)
}

func (h *NotificationEventHandlers) handleChange(event events.ChangeEvent) {
	h.logger.Debug("Forwarding library change",
		"op", event.Operation.Kind,
		"path", event.Operation.Path,
		"target", event.Operation.Target)
	h.notifier.BroadcastChange(event)
}
