package session

import "sync"

// EventType classifies session lifecycle events.
type EventType string

const (
	EventLogin         EventType = "login"
	EventLogout        EventType = "logout"
	EventContextSwitch EventType = "context_switch"
)

// Event is a session state change broadcast to subscribers.
type Event struct {
	Type    EventType
	GroupID string // set for context_switch into a group
}

// Bus fans session events out to subscribers. Components that care about
// login, logout, or context switches subscribe instead of polling stored
// state.
type Bus struct {
	mu        sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.nextSubID++
	id := b.nextSubID
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber. Slow subscribers drop events
// rather than block the publisher.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	b.mu.Unlock()
}
