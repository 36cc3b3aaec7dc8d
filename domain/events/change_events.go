package events

import (
	"time"

	"spfs/domain/journal"
)

// ChangeEvent reports a successful mutation of the document library.
type ChangeEvent struct {
	Operation journal.Operation
	Timestamp time.Time
}

// ChangePublisher defines the interface for publishing library change events.
type ChangePublisher interface {
	PublishChange(event ChangeEvent)
}
