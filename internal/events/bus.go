package events

import "sync"

// Bus is an in-memory Source. Handlers run synchronously on the publisher's
// goroutine in subscription order.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string]map[int]Handler
	order     map[string][]int
	nextID    int
}

func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string]map[int]Handler),
		order:     make(map[string][]int),
	}
}

// Subscribe registers a listener for an event type
func (b *Bus) Subscribe(eventType string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	if b.listeners[eventType] == nil {
		b.listeners[eventType] = make(map[int]Handler)
	}
	b.listeners[eventType][id] = handler
	b.order[eventType] = append(b.order[eventType], id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(eventType, id) })
	}
}

// Publish sends an event to all listeners of its type
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	eventType := event.EventType()
	handlers := make([]Handler, 0, len(b.order[eventType]))
	for _, id := range b.order[eventType] {
		handlers = append(handlers, b.listeners[eventType][id])
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Len returns the number of listeners for an event type.
func (b *Bus) Len(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventType])
}

func (b *Bus) remove(eventType string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners[eventType], id)
	ids := b.order[eventType]
	for i, existing := range ids {
		if existing == id {
			b.order[eventType] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}
