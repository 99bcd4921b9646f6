package events

import (
	"github.com/kelindar/event"
)

// Bus fans clock events out to the API, metrics and status LED.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish delivers ev to every subscriber of its concrete type.
// Usage: bus.Publish(ModeChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case DisplayUpdatedEvent:
		event.Publish(b.dispatcher, e)
	case ModeChangedEvent:
		event.Publish(b.dispatcher, e)
	case PuzzleResultEvent:
		event.Publish(b.dispatcher, e)
	case TimeSyncChangedEvent:
		event.Publish(b.dispatcher, e)
	case SettingsChangedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type named by its parameter and
// returns the unsubscribe function. Unknown handler types get a no-op.
// Usage: unsub := bus.Subscribe(func(e PuzzleResultEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(DisplayUpdatedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ModeChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PuzzleResultEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(TimeSyncChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SettingsChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
