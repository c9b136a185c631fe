package broadcast

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const subscriberBufSize = 256

// Event is one typed broadcast delivered to a scenario room.
type Event struct {
	Room      string      `json:"room"`
	Name      string      `json:"event"`
	Payload   interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Subscriber receives events for the rooms it has joined.
type Subscriber struct {
	ch    chan Event
	rooms map[string]bool
}

// Events returns the subscriber's delivery channel.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub is the room-scoped fan-out primitive. Delivery is best-effort and
// non-blocking: a full subscriber channel drops the event with a warning,
// never stalling the simulation loops.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]bool
	log         *zap.Logger
	clock       func() time.Time
}

// NewHub creates a Hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		subscribers: make(map[*Subscriber]bool),
		log:         log,
		clock:       time.Now,
	}
}

// RoomForScenario names the room carrying a scenario's events.
func RoomForScenario(scenarioID string) string {
	return fmt.Sprintf("scenario:%s", scenarioID)
}

// Subscribe registers a new subscriber with no room memberships.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ch:    make(chan Event, subscriberBufSize),
		rooms: make(map[string]bool),
	}
	h.mu.Lock()
	h.subscribers[sub] = true
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[sub] {
		delete(h.subscribers, sub)
		close(sub.ch)
	}
}

// Join adds the subscriber to a room.
func (h *Hub) Join(sub *Subscriber, room string) {
	h.mu.Lock()
	sub.rooms[room] = true
	h.mu.Unlock()
}

// Leave removes the subscriber from a room.
func (h *Hub) Leave(sub *Subscriber, room string) {
	h.mu.Lock()
	delete(sub.rooms, room)
	h.mu.Unlock()
}

// Publish fans an event out to every subscriber of the room.
func (h *Hub) Publish(room, name string, payload interface{}) {
	event := Event{Room: room, Name: name, Payload: payload, Timestamp: h.clock().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		if !sub.rooms[room] {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.log.Warn("subscriber channel full, event dropped",
				zap.String("room", room), zap.String("event", name))
		}
	}
}
