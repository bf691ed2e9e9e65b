package event

import (
	"sync"
)

// Event is one message on a session channel. Name identifies the event kind
// ("unlock_request", "participant_change", ...) and Payload carries the
// event-specific body.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// SessionTopic returns the broadcast topic for a session.
func SessionTopic(sessionID string) string {
	return "session:" + sessionID
}

// subscriberBuffer bounds how many undelivered events a subscriber may hold
// before newer events are dropped for it.
const subscriberBuffer = 16

// Bus is an in-process, best-effort broadcast channel. Delivery is
// at-most-once: a subscriber that falls behind loses events, and events
// published with no subscribers vanish. Consumers must reconcile against the
// durable store; the bus only shortens polling latency.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan Event
	nextID int
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

// Publish delivers evt to every current subscriber of topic without blocking.
// Subscribers with full buffers are skipped. The error return exists to
// satisfy publisher contracts backed by external channels; the in-process bus
// never fails.
func (b *Bus) Publish(topic string, evt Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber for topic. The returned cancel func
// removes the subscription and closes the channel; it is safe to call more
// than once.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			close(ch)
		})
	}
	return ch, cancel
}
