// Package events carries window-level notifications (scroll, storage
// changes) to the navigation shell of one page.
package events

const (
	TypeScroll  = "scroll"
	TypeStorage = "storage"
)

type Event interface {
	EventType() string
}

// ScrollEvent reports the page's vertical scroll offset in pixels.
type ScrollEvent struct {
	OffsetY float64
}

func (ScrollEvent) EventType() string { return TypeScroll }

// StorageEvent reports that a persisted key changed.
type StorageEvent struct {
	Key string
}

func (StorageEvent) EventType() string { return TypeStorage }

type Handler func(Event)

// Source lets a consumer listen for one event type until it unsubscribes.
type Source interface {
	Subscribe(eventType string, handler Handler) (unsubscribe func())
}

// NullSource never delivers events.
type NullSource struct{}

func (NullSource) Subscribe(string, Handler) func() { return func() {} }
