package events

import (
	"sync"
	"time"
)

// EventType identifies the kinds of events the alert pipeline publishes.
type EventType string

const (
	EventAlert         EventType = "ALERT"
	EventCycleComplete EventType = "CYCLE_COMPLETE"
	EventDirectorShift EventType = "DIRECTOR_SHIFT"
	EventTrapArmed     EventType = "TRAP_ARMED"
	EventTrapResolved  EventType = "TRAP_RESOLVED"
	EventFeedStatus    EventType = "FEED_STATUS"
	EventError         EventType = "ERROR"
)

// Event is one published occurrence with an arbitrary payload.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Subscriber handles published events.
type Subscriber func(Event)

// Bus fans events out to subscribers. Delivery is asynchronous so slow
// consumers (SSE clients, webhooks) never block the evaluation loop.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[int]Subscriber
	allSubs     map[int]Subscriber
	nextID      int
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[EventType]map[int]Subscriber),
		allSubs:     make(map[int]Subscriber),
	}
}

// Subscribe registers a subscriber for a specific event type. The returned
// function removes the subscription; transient consumers must call it or the
// closure stays registered for the life of the bus.
func (b *Bus) Subscribe(eventType EventType, subscriber Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subscribers[eventType] == nil {
		b.subscribers[eventType] = make(map[int]Subscriber)
	}
	b.subscribers[eventType][id] = subscriber

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers[eventType], id)
	}
}

// SubscribeAll registers a subscriber for every event. The returned function
// removes the subscription.
func (b *Bus) SubscribeAll(subscriber Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.allSubs[id] = subscriber

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.allSubs, id)
	}
}

// Publish sends an event to all matching subscribers.
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers[event.Type] {
		go sub(event)
	}
	for _, sub := range b.allSubs {
		go sub(event)
	}
}
